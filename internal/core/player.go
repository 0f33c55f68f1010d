package core

// Transport is the control surface of an active Connect endpoint.
// Calls do not block on the network; failures are reported immediately.
//
//go:generate mockgen -destination=../connect/mocks/transport_mock.go -package=mocks github.com/tessro/minispot/internal/core Transport
type Transport interface {
	Play() error
	Pause() error
	Next() error
	Prev() error
}
