package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "speadgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
spead:
  transport:
    mode: udp
    host: 239.1.2.3
    port: 8888
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint8(4), cfg.Flavour.Version)
	require.Equal(t, uint8(64), cfg.Flavour.ItemPointerBits)
	require.Equal(t, 1472, cfg.Transport.MTU)
	require.Equal(t, 1, cfg.Heap.DescriptorCacheTTL)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_RejectsMissingPcapPath(t *testing.T) {
	path := writeConfig(t, `
spead:
  transport:
    mode: pcap
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
spead:
  transport:
    mode: udp
    host: 127.0.0.1
  log:
    level: verbose
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
spead:
  transport:
    mode: udp
    host: 127.0.0.1
`)

	t.Setenv("SPEAD_TRANSPORT_PORT", "9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Transport.Port)
}
