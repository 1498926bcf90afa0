package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payment.log")
	l := NewIsolatedLogger(path)

	l.Info("PAYMENT", "payment completed", map[string]interface{}{"payment_id": "p-1"})
	l.Warn("PAYMENT", "stale pending payment", nil)
	l.Error("PAYMENT", "gateway failure", map[string]interface{}{"error": "timeout"})
	_ = l.Sync()

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "gateway failure", all[0].Message, "newest first")
	assert.Equal(t, "PAYMENT", all[0].Module)

	warns, err := l.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "stale pending payment", warns[0].Message)

	page, err := l.GetLogs("", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestGetLogsMissingFile(t *testing.T) {
	l := NewIsolatedLogger(filepath.Join(t.TempDir(), "missing", "never.log"))
	entries, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
