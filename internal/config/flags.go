package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Flags holds the command-line options.  Zero values mean "not given" and leave the config untouched.
type Flags struct {
	// Media is the primary media file, the first positional argument
	Media    string
	Proxy    string
	FPS      float64
	Library  string
	LogLevel string
	Autoplay bool
	Version  bool
}

// ParseFlags parses the command-line arguments, excluding the program name
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}

	fs := pflag.NewFlagSet("koma", pflag.ContinueOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: koma [flags] [media]\n\nFlags:\n%s\nEnvironment:\n%s",
			fs.FlagUsages(), EnvHelp())
	}

	fs.StringVarP(&f.Proxy, "proxy", "p", "", "Low resolution proxy of the media, shown while scrubbing")
	fs.Float64Var(&f.FPS, "fps", 0, "Frame rate override (default: from config or the media)")
	fs.StringVarP(&f.Library, "library", "l", "", "Directory to pick media from when no media is given")
	fs.StringVar(&f.LogLevel, "log-level", "", "Logging level: trace, debug, info, warn, error")
	fs.BoolVar(&f.Autoplay, "autoplay", false, "Start playback once the media is loaded")
	fs.BoolVarP(&f.Version, "version", "v", false, "Print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		f.Media = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one media file, got %d", fs.NArg())
	}

	if f.FPS < 0 {
		return nil, fmt.Errorf("fps must not be negative, got %v", f.FPS)
	}

	return f, nil
}

// MergeFlags overrides config values with the flags that were given
func (c *Config) MergeFlags(f *Flags) {
	if f.FPS > 0 {
		c.Scrub.FPS = f.FPS
	}
	if f.Library != "" {
		c.Library.Dir = f.Library
	}
	if f.LogLevel != "" {
		c.Logging.Level = f.LogLevel
	}
	if f.Autoplay {
		c.Player.Autoplay = true
	}
}
