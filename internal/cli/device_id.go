package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/minispot/internal/core"
)

var deviceIDCmd = &cobra.Command{
	Use:   "device-id [name]",
	Short: "Print the Connect device id",
	Long: `Print the device id controllers see for a device name. Without an
argument the configured name is used. The name is hashed exactly as given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeviceID,
}

var deviceIDQuiet bool

func init() {
	deviceIDCmd.Flags().BoolVarP(&deviceIDQuiet, "quiet", "q", false, "print only the id")
	rootCmd.AddCommand(deviceIDCmd)
}

func runDeviceID(cmd *cobra.Command, args []string) error {
	name := cfg.Device.Name
	if len(args) == 1 {
		name = args[0]
	}
	id := core.DeviceID(name)
	if deviceIDQuiet {
		SetOutputMode(OutputMinimal)
	}

	switch GetOutputMode() {
	case OutputJSON:
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"name":      name,
			"device_id": id,
		})
	case OutputMinimal:
		Minimal(id)
	default:
		t := NewTable("NAME", "DEVICE ID")
		t.Row(name, id)
		t.Flush()
	}
	return nil
}
