package rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.True(t, r.PassiveAcceptance.Enabled)
	assert.Equal(t, 14, r.PassiveAcceptance.WindowDays)
	assert.Equal(t, "NS 8407 §32.3", r.PassiveAcceptance.Clause)
	assert.Equal(t, 130, r.Acceleration.CapPercent)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		r, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), r)
	})

	t.Run("file overrides only the keys it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("passive_acceptance:\n  window_days: 21\n"), 0o600))

		r, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 21, r.PassiveAcceptance.WindowDays)
		assert.Equal(t, "NS 8407 §32.3", r.PassiveAcceptance.Clause)
		assert.Equal(t, 130, r.Acceleration.CapPercent)
	})

	t.Run("invalid override is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("acceleration:\n  cap_percent: 50\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cap_percent")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestDeemedAt(t *testing.T) {
	p := PassiveAcceptance{Enabled: true, WindowDays: 14, Clause: "x"}
	notice := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC), p.DeemedAt(notice))
}
