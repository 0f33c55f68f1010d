package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/minispot/internal/config"
)

const configHeader = "# Minispot Configuration\n\n"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing minispot configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, defaults and environment overrides included.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. The result is validated before it is written.

Keys take the form section.field, for example:
  device.name             Name shown in Spotify apps
  device.initial_volume   Volume on connect (0-100)
  device.volume_control   Whether controllers may change the volume
  discovery.port          Port of the discovery endpoint (0 = any)
  audio.backend           alsa, pulseaudio, jack, wasapi, coreaudio or null
  log.level               debug, info, warn or error

Examples:
  minispot config set device.name "Kitchen"
  minispot config set audio.backend pulseaudio`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var intKeys = map[string]bool{
	"device.initial_volume": true,
	"discovery.port":        true,
	"audio.sample_rate":     true,
	"audio.channels":        true,
	"audio.buffer_ms":       true,
	"player.poll_interval":  true,
	"player.command_buffer": true,
	"window.width":          true,
	"window.height":         true,
	"log.max_size_mb":       true,
	"log.max_backups":       true,
	"log.max_age_days":      true,
}

var boolKeys = map[string]bool{
	"device.volume_control": true,
}

var listKeys = map[string]bool{
	"discovery.interfaces": true,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'minispot config init' first", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := config.Save(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'minispot auth login' to authenticate with Spotify")
	fmt.Println("  2. Run 'minispot' and pick the device in a Spotify app")
	return nil
}

// getConfigPath returns the file config commands operate on: --config, an
// existing ~/.minispotrc, or the XDG location.
func getConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		rc := filepath.Join(home, ".minispotrc")
		if _, err := os.Stat(rc); err == nil {
			return rc, nil
		}
	}
	return config.DefaultPath()
}

// setConfigValue updates key in the raw TOML document and returns the
// validated configuration it produces.
func setConfigValue(raw map[string]interface{}, key, value string) (*config.Config, error) {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" || strings.Contains(field, ".") {
		return nil, fmt.Errorf("invalid key format. Use 'section.key' (e.g., device.name)")
	}

	var typed interface{}
	switch {
	case intKeys[key]:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		typed = i
	case boolKeys[key]:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false for %s", key)
		}
		typed = b
	case listKeys[key]:
		var items []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		typed = items
	default:
		typed = value
	}

	sectionMap, ok := raw[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	next := &config.Config{}
	md, err := toml.Decode(buf.String(), next)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key: %s", undecoded[0])
	}
	next.ApplyDefaults()
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	raw := make(map[string]interface{})
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, &raw); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if _, err := setConfigValue(raw, key, value); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(raw); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
