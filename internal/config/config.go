package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Player  PlayerConfig  `yaml:"player,omitempty"`
	Scrub   ScrubConfig   `yaml:"scrub,omitempty"`
	Library LibraryConfig `yaml:"library,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// PlayerConfig contains settings for the mpv instances showing the media
type PlayerConfig struct {
	Path string `yaml:"path,omitempty"`
	// Args are extra mpv arguments for both instances
	Args string `yaml:"args,omitempty"`
	// ProxyArgs are extra mpv arguments for the proxy instance only
	ProxyArgs string `yaml:"proxy_args,omitempty"`
	// SocketDir is where the IPC sockets are created.  Ignored on Windows which uses named pipes.
	SocketDir string `yaml:"socket_dir,omitempty"`
	// Autoplay starts playback as soon as the media is loaded
	Autoplay bool `yaml:"autoplay,omitempty"`
}

// ScrubConfig contains scrubbing and controls behaviour
type ScrubConfig struct {
	// FPS overrides the frame rate reported by the media.  0 means use the media's rate.
	FPS                 float64 `yaml:"fps,omitempty"`
	ControlsHideDelayMs int     `yaml:"controls_hide_delay_ms,omitempty"`
	Volume              float64 `yaml:"volume,omitempty"`
	VolumeStep          float64 `yaml:"volume_step,omitempty"`
}

// LibraryConfig contains settings for discovering media files and their proxies
type LibraryConfig struct {
	Dir string `yaml:"dir,omitempty"`
	// ProxySuffix marks proxy files, e.g. clip_proxy.mp4 is the proxy of clip.mov
	ProxySuffix string   `yaml:"proxy_suffix,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
}

// Load builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Apply 'dynamic' properties, determined at runtime and never written to disk
// 4. Load & merge the config file, overwriting any defaults with user-specified values
// 5. Apply environment variable overrides
// 6. Validate the result
func Load() (*Config, error) {
	cfg := createBaseDefaultConfig()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to determine config file path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// A failure to write the defaults should not stop the application starting with them
		_ = save(cfg, configPath)
	}

	applyDynamicDefaults(cfg)

	fileConfig, err := loadFromDisk(configPath)
	if err != nil {
		return nil, err
	}
	if err = mergo.Merge(cfg, fileConfig, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging config loaded from disk: %w", err)
	}

	if err := applyEnvVarOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = defaultLogFilePath()
	cfg.Player.SocketDir = defaultSocketDir()
}

// loadFromDisk loads the YAML config from disk and returns the unmarshalled Config
func loadFromDisk(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func save(cfg *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// UpdateConfig reads the existing config, applies the update function, and saves it back to disk
func UpdateConfig(updateFn func(*Config)) error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("unable to determine config file path: %w", err)
	}

	cfg, err := loadFromDisk(configPath)
	if err != nil {
		return fmt.Errorf("error loading config file from disk: %w", err)
	}

	updateFn(cfg)

	return save(cfg, configPath)
}

// getConfigPath returns the path to the config file.  Uses the environment variable override if present, else tries
// to use OS config location defaults.
func getConfigPath() (string, error) {
	if configPath := os.Getenv("KOMA_CONFIG_PATH"); configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "koma", "config.yaml"), nil
}

// createBaseDefaultConfig creates a config with all static default values
func createBaseDefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Path:      "mpv",
			ProxyArgs: "--aid=no",
		},
		Scrub: ScrubConfig{
			ControlsHideDelayMs: 2000,
			Volume:              1.0,
			VolumeStep:          0.05,
		},
		Library: LibraryConfig{
			ProxySuffix: "_proxy",
			Extensions:  []string{".mp4", ".mkv", ".mov", ".webm", ".avi", ".m4v"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultLogFilePath returns the path to the log file.  Tries to use expected OS location defaults.
func defaultLogFilePath() string {
	var basePath string
	homedir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "koma.log")
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, "koma", "logs")
		} else {
			basePath = filepath.Join(homedir, "AppData", "local", "koma", "logs")
		}
	case "darwin":
		basePath = filepath.Join(homedir, "Library", "Logs", "koma")
	default:
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, "koma", "logs")
		} else {
			basePath = filepath.Join(homedir, ".local", "state", "koma", "logs")
		}
	}

	return filepath.Join(basePath, "koma.log")
}

// defaultSocketDir returns the directory for mpv IPC sockets
func defaultSocketDir() string {
	if runtime.GOOS == "windows" {
		return ""
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir
	}
	return os.TempDir()
}
