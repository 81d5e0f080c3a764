package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xtp/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runJSON(t *testing.T, args ...string) (report, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"xtpctl", "run", "--json", "--log-level", "error"}, args...), &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	var rep report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rep), "stdout: %s", stdout.String())
	return rep, stderr.String()
}

func TestRun_Join(t *testing.T) {
	rep, _ := runJSON(t, "-w", "4", "-n", "100")

	assert.Equal(t, config.ModeJoin, rep.Mode)
	assert.Equal(t, 4, rep.Workers)
	assert.Equal(t, int64(100), rep.Expected)
	assert.Equal(t, int64(100), rep.Stats.Executed)
	assert.Equal(t, int64(0), rep.Stats.Dropped)
	assert.Equal(t, 0, rep.Stats.Workers)
}

func TestRun_RecursiveJoin(t *testing.T) {
	rep, _ := runJSON(t, "-w", "3", "-n", "5", "-d", "3", "--fanout", "2")

	assert.Equal(t, int64(5*15), rep.Expected)
	assert.Equal(t, rep.Expected, rep.Stats.Executed)
	assert.Equal(t, rep.Expected, rep.Stats.Submitted)
}

func TestRun_ShutdownWithoutWorkers(t *testing.T) {
	rep, _ := runJSON(t, "-w", "0", "-n", "20", "--mode", "shutdown")

	assert.Equal(t, int64(0), rep.Stats.Executed)
	assert.Equal(t, int64(20), rep.Stats.Dropped)
}

func TestRun_ShutdownAccountsEveryRootTask(t *testing.T) {
	rep, _ := runJSON(t, "-w", "1", "-n", "50", "--work", "1ms", "--mode", "shutdown")

	assert.Equal(t, int64(50), rep.Stats.Executed+rep.Stats.Dropped)
}

func TestRun_ConfigFileWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xtp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pool:
  workers: 2
  name: from-file
workload:
  tasks: 7
`), 0o600))

	rep, _ := runJSON(t, "-c", path, "-n", "9")

	assert.Equal(t, "from-file", rep.Pool)
	assert.Equal(t, 2, rep.Workers)
	assert.Equal(t, int64(9), rep.Stats.Executed, "命令行参数覆盖配置文件")
}

func TestRun_TextOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"xtpctl", "run", "-w", "2", "-n", "3", "--log-level", "error"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "mode:      join")
	assert.Contains(t, out, "executed:  3")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad_mode", []string{"--mode", "drain"}},
		{"negative_workers", []string{"--workers=-1"}},
		{"bad_log_level", []string{"--log-level", "loud"}},
		{"missing_config", []string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}},
		{"unsupported_config", []string{"-c", "xtp.toml"}},
		{"join_without_workers", []string{"-w", "0", "-n", "1"}},
		{"tree_too_large", []string{"-n", "1", "-d", "64", "--fanout", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), append([]string{"xtpctl", "run"}, tt.args...), &stdout, &stderr)
			assert.Equal(t, 2, code)
			assert.True(t, strings.HasPrefix(stderr.String(), "参数错误"), stderr.String())
		})
	}
}

func TestRunWorkload_Interrupted(t *testing.T) {
	cfg := config.Default()
	cfg.Pool.Workers = 1
	cfg.Workload.Tasks = 1000
	cfg.Workload.Work = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rep, err := runWorkload(ctx, cfg, logger)

	require.ErrorIs(t, err, errInterrupted)
	assert.Positive(t, rep.Stats.Dropped, "中断时队列中的任务应被丢弃")
	assert.Equal(t, rep.Stats.Submitted, rep.Stats.Executed+rep.Stats.Dropped)
	assert.Equal(t, 0, rep.Stats.Workers)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.Log{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(config.Log{Level: "nope"}, &buf)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
