package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/minispot/internal/config"
	"github.com/tessro/minispot/internal/core"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a configuration interactively",
	Long: `Walks through the main settings (device name, volume, device type, audio
output and log level) and writes them to the configuration file.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupAnswers holds the form values before they are applied.
type setupAnswers struct {
	Name           string
	Volume         string
	AdvertisedType string
	Backend        string
	LogLevel       string
}

func answersFrom(c *config.Config) setupAnswers {
	return setupAnswers{
		Name:           c.Device.Name,
		Volume:         strconv.Itoa(c.Device.InitialVolume),
		AdvertisedType: c.Device.AdvertisedType,
		Backend:        c.Audio.Backend,
		LogLevel:       c.Log.Level,
	}
}

func validateDeviceName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

func validateVolume(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 || v > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	return nil
}

// apply writes the answers onto c. The name is kept verbatim; only blank
// input is rejected.
func (a setupAnswers) apply(c *config.Config) error {
	if err := validateDeviceName(a.Name); err != nil {
		return err
	}
	if err := validateVolume(a.Volume); err != nil {
		return err
	}
	vol, _ := strconv.Atoi(strings.TrimSpace(a.Volume))

	c.Device.Name = a.Name
	c.Device.InitialVolume = vol
	c.Device.AdvertisedType = a.AdvertisedType
	c.Audio.Backend = a.Backend
	c.Log.Level = a.LogLevel
	return c.Validate()
}

var advertisedTypes = []core.DeviceType{
	core.DeviceTypeComputer,
	core.DeviceTypeSpeaker,
	core.DeviceTypeAVR,
	core.DeviceTypeTV,
	core.DeviceTypeSmartphone,
	core.DeviceTypeTablet,
}

func setupForm(a *setupAnswers) *huh.Form {
	typeOptions := make([]huh.Option[string], len(advertisedTypes))
	for i, t := range advertisedTypes {
		typeOptions[i] = huh.NewOption(t.String(), t.String())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Device name").
				Description("Shown in the device list of Spotify apps").
				Value(&a.Name).
				Validate(validateDeviceName),
			huh.NewInput().
				Title("Initial volume").
				Description("0-100, applied when a controller connects").
				Value(&a.Volume).
				Validate(validateVolume),
			huh.NewSelect[string]().
				Title("Device type").
				Description("Decides the icon controllers show").
				Options(typeOptions...).
				Value(&a.AdvertisedType),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Audio output").
				Options(
					huh.NewOption("Automatic", ""),
					huh.NewOption("PulseAudio", "pulseaudio"),
					huh.NewOption("ALSA", "alsa"),
					huh.NewOption("JACK", "jack"),
					huh.NewOption("Core Audio", "coreaudio"),
					huh.NewOption("WASAPI", "wasapi"),
					huh.NewOption("None (discard audio)", "null"),
				).
				Value(&a.Backend),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.LogLevel),
		),
	)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("setup needs an interactive terminal; use 'minispot config set' instead")
	}

	path, err := getConfigPath()
	if err != nil {
		return err
	}

	answers := answersFrom(cfg)
	if err := setupForm(&answers).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	next := *cfg
	if err := answers.apply(&next); err != nil {
		return err
	}
	if err := config.Save(path, &next); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Run 'minispot auth login' if you have not authenticated yet.")
	return nil
}
