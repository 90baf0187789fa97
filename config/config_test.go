package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rollwallet/rollups"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletd.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:5004", cfg.RollupURL)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, "./wallet-data", cfg.DataDir)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestLoadParsesSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletd.toml")
	contents := `RollupURL = "http://rollup:5004"
ListenAddress = "0.0.0.0:9000"
DataDir = "./data"
LogFile = "/var/log/walletd.log"
Env = "staging"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://rollup:5004", cfg.RollupURL)
	require.Equal(t, "0.0.0.0:9000", cfg.ListenAddress)
	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, "/var/log/walletd.log", cfg.LogFile)
	require.Equal(t, "staging", cfg.Env)

	book, err := cfg.PortalBook()
	require.NoError(t, err)
	require.Equal(t, rollups.DefaultPortalBook(), book)
}

func TestPortalBookOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletd.toml")
	contents := `[Portals]
EtherPortal = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	book, err := cfg.PortalBook()
	require.NoError(t, err)
	require.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", book.EtherPortal.Hex())
	require.Equal(t, rollups.ERC20PortalAddress, book.ERC20Portal)
}

func TestPortalBookRejectsBadAddress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletd.toml")
	contents := `[Portals]
ERC20Portal = "not-an-address"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ERC20Portal")
}
