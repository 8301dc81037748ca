// Package diagnostics exposes daemon housekeeping information to clients:
// the daemon's pid and a tail of its log file. It carries no graph logic.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// logTailLines is how many trailing log lines Describe includes.
const logTailLines = 20

// DaemonDiagnostics describes a running daemon to a client.
type DaemonDiagnostics struct {
	// Pid is the daemon's process id, or 0 when the daemon could not
	// identify its own pid.
	Pid int `json:"pid"`
	// LogFile is the path to the daemon's log file.
	LogFile string `json:"logFile"`
}

func (d DaemonDiagnostics) String() string {
	return fmt.Sprintf("{pid=%d, daemonLog=%s}", d.Pid, d.LogFile)
}

// TailLog returns the last few lines of the daemon log, framed for display.
func (d DaemonDiagnostics) TailLog() (string, error) {
	tail, err := tailFile(d.LogFile, logTailLines)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("----- Daemon log file tail - %s -----\n%s\n----- End of daemon log -----\n",
		filepath.Base(d.LogFile), tail), nil
}

// Describe returns a human-readable summary including the log tail. A log
// that cannot be read is reported inline rather than failing the summary.
func (d DaemonDiagnostics) Describe() string {
	tail, err := d.TailLog()
	if err != nil {
		tail = fmt.Sprintf("Unable to read from the daemon log file: %s\n", err)
	}
	return fmt.Sprintf("Daemon pid: %d\n  log file: %s\n%s", d.Pid, d.LogFile, tail)
}

func tailFile(path string, n int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}
