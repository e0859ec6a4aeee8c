package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViper_DefaultsWithoutFile(t *testing.T) {
	cfg, err := NewViper("")
	require.NoError(t, err)

	assert.Equal(t, "2fa.json", cfg.GetString("store.path"))
	assert.Equal(t, 5*time.Second, cfg.GetSecond("store.lock_timeout_seconds"))
	assert.Equal(t, 6, cfg.GetInt("otp.default_digits"))
	assert.Equal(t, uint64(30), cfg.GetUint64("otp.default_period"))
	assert.True(t, cfg.GetBool("clipboard.enabled"))
	assert.Equal(t, []string{"secret", "uri", "key", "code"}, cfg.GetArray("log.mask_fields"))
	assert.InDelta(t, 1.0, cfg.GetFloat64("instrument.trace_sample_ratio"), 0.0001)
	require.NoError(t, cfg.Close())
}

func TestNewViper_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("store:\n  path: /tmp/vault.yaml\nlog:\n  mask_fields: [secret, token]\n"), 0o600))

	cfg, err := NewViper(file)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vault.yaml", cfg.GetString("store.path"))
	assert.Equal(t, []string{"secret", "token"}, cfg.GetArray("log.mask_fields"))
	assert.Equal(t, "twofa", cfg.GetString("otp.issuer"))
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewViper_EnvOverride(t *testing.T) {
	t.Setenv("TWOFA_STORE_PATH", "from-env.json")
	t.Setenv("TWOFA_CLIPBOARD_ENABLED", "false")

	cfg, err := NewViper("")
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.GetString("store.path"))
	assert.False(t, cfg.GetBool("clipboard.enabled"))
}

func TestNewViperFromBytes(t *testing.T) {
	_, err := NewViperFromBytes("", nil)
	require.Error(t, err)

	cfg, err := NewViperFromBytes("json", []byte(`{"otp":{"default_digits":8}}`))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.GetInt("otp.default_digits"))
	assert.Equal(t, uint64(30), cfg.GetUint64("otp.default_period"))
}

func TestViper_BindFlag(t *testing.T) {
	cfg, err := NewViper("")
	require.NoError(t, err)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("store", "", "")
	require.NoError(t, cfg.BindFlag("store.path", fs.Lookup("store")))
	require.Error(t, cfg.BindFlag("store.path", fs.Lookup("missing")))

	assert.Equal(t, "2fa.json", cfg.GetString("store.path"), "unset flag keeps default")

	require.NoError(t, fs.Parse([]string{"--store", "flag.json"}))
	assert.Equal(t, "flag.json", cfg.GetString("store.path"))
}
