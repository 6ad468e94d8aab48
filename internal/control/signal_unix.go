//go:build unix

package control

import (
	"os"

	"golang.org/x/sys/unix"
)

func suspend(p *os.Process) error   { return unix.Kill(p.Pid, unix.SIGSTOP) }
func resume(p *os.Process) error    { return unix.Kill(p.Pid, unix.SIGCONT) }
func terminate(p *os.Process) error { return unix.Kill(p.Pid, unix.SIGTERM) }
