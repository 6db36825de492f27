package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	req.NoError(err)
	l.Debug("hello")
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	req.NoError(err)
	req.Contains(string(raw), `"msg":"hello"`)
	req.Contains(string(raw), `"timestamp"`)
}

func TestNew_FallsBackOnUnknownLevel(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Config{Level: "loud", Format: "xml", OutputPath: path})
	req.NoError(err)
	l.Debug("hidden")
	l.Info("shown")
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	req.NoError(err)
	req.NotContains(string(raw), "hidden")
	req.Contains(string(raw), "shown")
}
