//go:build !unix

package control

import "os"

// Job-control signals are unavailable; pause only gates the pipeline.
func suspend(*os.Process) error     { return nil }
func resume(*os.Process) error      { return nil }
func terminate(p *os.Process) error { return p.Kill() }
