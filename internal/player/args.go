package player

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// SplitArgs splits a string of mpv options with shell quoting rules, so quoted values may contain spaces
func SplitArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("invalid mpv arguments %q: %w", s, err)
	}
	return args, nil
}
