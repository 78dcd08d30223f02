//go:build !windows

package player

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// setupPlayerProcess puts mpv in its own process group so terminal signals aimed at koma do not reach it
func setupPlayerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// socketPath returns a socket path unique to this process and role
func socketPath(dir, role string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("koma-%d-%s.sock", os.Getpid(), role))
}

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mpv socket: %w", err)
	}
	return conn, nil
}

func removeSocket(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
}
