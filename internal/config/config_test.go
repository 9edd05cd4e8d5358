package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash"
)

var envKeys = []string{
	"XLSXDASH_DATA_DIR", "XLSXDASH_CATALOG", "XLSXDASH_EXT", "XLSXDASH_FORMAT", "XLSXDASH_DPI",
	"XLSXDASH_VERBOSE", "PORT", "GIN_MODE", "XLSXDASH_READ_TIMEOUT", "XLSXDASH_WRITE_TIMEOUT",
}

// clearEnv blanks every variable Load reads; an empty value selects the default.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", c.Render.DataDir)
	assert.Equal(t, "", c.Render.Catalog)
	assert.Equal(t, ".xlsx", c.Render.Extension)
	assert.Equal(t, "png", c.Render.Format)
	assert.Equal(t, 96, c.Render.DPI)
	assert.Equal(t, ":8080", c.Addr())
	assert.Equal(t, "release", c.Server.GinMode)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, time.Minute, c.Server.WriteTimeout)
	assert.False(t, c.Verbose)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("XLSXDASH_DATA_DIR", "/srv/data")
	t.Setenv("XLSXDASH_FORMAT", "svg")
	t.Setenv("XLSXDASH_DPI", "150")
	t.Setenv("XLSXDASH_VERBOSE", "true")
	t.Setenv("PORT", "9000")
	t.Setenv("XLSXDASH_READ_TIMEOUT", "2s")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", c.Render.DataDir)
	assert.Equal(t, 150, c.Render.DPI)
	assert.True(t, c.Verbose)
	assert.Equal(t, ":9000", c.Addr())
	assert.Equal(t, 2*time.Second, c.Server.ReadTimeout)

	opts := c.RenderOptions()
	assert.Equal(t, xlsxdash.FormatSVG, opts.Format)
	assert.Equal(t, "image/svg+xml", opts.MediaType())
	assert.Equal(t, filepath.Join("/srv/data", "1.1.xlsx"), opts.SourcePath("1.1"))
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("XLSXDASH_DPI", "lots")
	t.Setenv("XLSXDASH_WRITE_TIMEOUT", "soon")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 96, c.Render.DPI)
	assert.Equal(t, 60*time.Second, c.Server.WriteTimeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"XLSXDASH_FORMAT", "gif", "invalid image format"},
		{"XLSXDASH_DPI", "-5", "dpi must not be negative"},
		{"GIN_MODE", "loud", `unknown gin mode "loud"`},
		{"XLSXDASH_READ_TIMEOUT", "-1s", "timeouts must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	clearEnv(t)
	t.Setenv("XLSXDASH_FORMAT", "gif")
	_, err := Load()
	assert.True(t, errors.Is(err, xlsxdash.ErrInvalidFormat))
}

func TestLoadWithDotenv(t *testing.T) {
	clearEnv(t)
	for _, k := range envKeys {
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("XLSXDASH_DATA_DIR=reports\nPORT=7070\n"), 0644))
	require.NoError(t, godotenv.Load(path))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "reports", c.Render.DataDir)
	assert.Equal(t, ":7070", c.Addr())
}
