package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines int) string {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	path := filepath.Join(t.TempDir(), "daemon.log")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestString(t *testing.T) {
	d := DaemonDiagnostics{Pid: 1234, LogFile: "/var/log/quarry/daemon.log"}
	assert.Equal(t, "{pid=1234, daemonLog=/var/log/quarry/daemon.log}", d.String())
}

func TestTailLogShortFile(t *testing.T) {
	d := DaemonDiagnostics{Pid: 1, LogFile: writeLog(t, 3)}

	tail, err := d.TailLog()
	require.NoError(t, err)

	assert.Contains(t, tail, "Daemon log file tail - daemon.log")
	assert.Contains(t, tail, "line 1")
	assert.Contains(t, tail, "line 3")
	assert.Contains(t, tail, "End of daemon log")
}

func TestTailLogTruncatesToLastLines(t *testing.T) {
	d := DaemonDiagnostics{Pid: 1, LogFile: writeLog(t, 50)}

	tail, err := d.TailLog()
	require.NoError(t, err)

	assert.NotContains(t, tail, "line 30\n")
	assert.Contains(t, tail, "line 31")
	assert.Contains(t, tail, "line 50")
}

func TestDescribeWithUnreadableLog(t *testing.T) {
	d := DaemonDiagnostics{Pid: 42, LogFile: filepath.Join(t.TempDir(), "missing.log")}

	out := d.Describe()

	assert.Contains(t, out, "Daemon pid: 42")
	assert.Contains(t, out, "Unable to read from the daemon log file")
}
