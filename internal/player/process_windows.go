//go:build windows

package player

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"syscall"

	"gopkg.in/natefinch/npipe.v2"
)

// setupPlayerProcess starts mpv in a new process group so console signals aimed at koma do not reach it
func setupPlayerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// socketPath returns a named pipe path unique to this process and role.  dir is ignored on windows.
func socketPath(_ string, role string) string {
	return fmt.Sprintf(`\\.\pipe\koma-%d-%s`, os.Getpid(), role)
}

func dialIPC(_ context.Context, path string) (net.Conn, error) {
	conn, err := npipe.Dial(path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mpv pipe: %w", err)
	}
	return conn, nil
}

// removeSocket is a no-op, named pipes disappear with their server
func removeSocket(string) {}
