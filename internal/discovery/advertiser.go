package discovery

import (
	"fmt"
	"net"
	"strings"

	"github.com/libp2p/zeroconf/v2"
)

// ServiceType is the DNS-SD service Connect controllers browse for.
const ServiceType = "_spotify-connect._tcp"

// Advertiser publishes the gate on the local network.
type Advertiser interface {
	Advertise(instance string, port int, txt []string) error
	Shutdown()
}

// MDNS advertises over multicast DNS.
type MDNS struct {
	// Interfaces restricts the advertisement. Empty means all multicast
	// capable interfaces.
	Interfaces []string

	server *zeroconf.Server
}

// Advertise registers the service record.
func (m *MDNS) Advertise(instance string, port int, txt []string) error {
	ifaces, err := resolveInterfaces(m.Interfaces)
	if err != nil {
		return err
	}
	server, err := zeroconf.Register(instance, ServiceType, "local.", port, txt, ifaces)
	if err != nil {
		return fmt.Errorf("mdns register: %w", err)
	}
	m.server = server
	return nil
}

// Shutdown withdraws the service record.
func (m *MDNS) Shutdown() {
	if m.server != nil {
		m.server.Shutdown()
		m.server = nil
	}
}

func resolveInterfaces(names []string) ([]net.Interface, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ifaces := make([]net.Interface, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		iface, err := net.InterfaceByName(name)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", name, err)
		}
		ifaces = append(ifaces, *iface)
	}
	return ifaces, nil
}
