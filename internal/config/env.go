package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string) error
}

var supportedEnvVars = []envVar{
	{
		// Only here for documentation purposes.  It points to where the config is loaded from and is handled before
		// loading.
		name:  "KOMA_CONFIG_PATH",
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) error { return nil },
	},
	{
		name:  "KOMA_CONFIG_PLAYER_PATH",
		desc:  "Sets the path to the mpv binary.  Default: mpv",
		apply: func(c *Config, s string) error { c.Player.Path = s; return nil },
	},
	{
		name:  "KOMA_CONFIG_PLAYER_ARGS",
		desc:  "Sets extra mpv arguments for both instances.  Default: None",
		apply: func(c *Config, s string) error { c.Player.Args = s; return nil },
	},
	{
		name:  "KOMA_CONFIG_PLAYER_PROXY_ARGS",
		desc:  "Sets extra mpv arguments for the proxy instance.  Default: --aid=no",
		apply: func(c *Config, s string) error { c.Player.ProxyArgs = s; return nil },
	},
	{
		name:  "KOMA_CONFIG_PLAYER_SOCKET_DIR",
		desc:  "Sets the directory for mpv IPC sockets.  Default: XDG_RUNTIME_DIR or the temp dir",
		apply: func(c *Config, s string) error { c.Player.SocketDir = s; return nil },
	},
	{
		name: "KOMA_CONFIG_PLAYER_AUTOPLAY",
		desc: "Starts playback once the media is loaded.  One of: true, false.  Default: false",
		apply: func(c *Config, s string) error {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			c.Player.Autoplay = v
			return nil
		},
	},
	{
		name: "KOMA_CONFIG_SCRUB_FPS",
		desc: "Overrides the media frame rate.  Default: the rate reported by the media",
		apply: func(c *Config, s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			c.Scrub.FPS = v
			return nil
		},
	},
	{
		name: "KOMA_CONFIG_SCRUB_CONTROLS_HIDE_DELAY_MS",
		desc: "Sets the idle time in milliseconds before fullscreen controls hide.  Default: 2000",
		apply: func(c *Config, s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			c.Scrub.ControlsHideDelayMs = v
			return nil
		},
	},
	{
		name:  "KOMA_CONFIG_LIBRARY_DIR",
		desc:  "Sets the directory listed by the library picker.  Default: the working directory",
		apply: func(c *Config, s string) error { c.Library.Dir = s; return nil },
	},
	{
		name:  "KOMA_CONFIG_LIBRARY_PROXY_SUFFIX",
		desc:  "Sets the file name suffix that marks proxy files.  Default: _proxy",
		apply: func(c *Config, s string) error { c.Library.ProxySuffix = s; return nil },
	},
	{
		name:  "KOMA_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: trace, debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) error { c.Logging.Level = s; return nil },
	},
	{
		name:  "KOMA_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) error { c.Logging.FilePath = s; return nil },
	},
}

func applyEnvVarOverrides(c *Config) error {
	for _, envVar := range supportedEnvVars {
		value := os.Getenv(envVar.name)
		if value == "" {
			continue
		}
		if err := envVar.apply(c, value); err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, envVar.name, err)
		}
	}
	return nil
}

// EnvHelp documents the supported environment variables, one per line
func EnvHelp() string {
	var sb strings.Builder
	for _, envVar := range supportedEnvVars {
		fmt.Fprintf(&sb, "  %-42s %s\n", envVar.name, envVar.desc)
	}
	return sb.String()
}
