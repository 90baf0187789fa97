package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"

	"rollwallet/rollups"
)

// Config holds the walletd runtime settings.
type Config struct {
	RollupURL     string        `toml:"RollupURL"`
	ListenAddress string        `toml:"ListenAddress"`
	DataDir       string        `toml:"DataDir"`
	LogFile       string        `toml:"LogFile"`
	Env           string        `toml:"Env"`
	Portals       PortalsConfig `toml:"Portals"`
}

// PortalsConfig optionally overrides the deployed portal contract addresses.
// Empty fields keep the deterministic-deployment defaults.
type PortalsConfig struct {
	EtherPortal         string `toml:"EtherPortal"`
	ERC20Portal         string `toml:"ERC20Portal"`
	ERC721Portal        string `toml:"ERC721Portal"`
	ERC1155SinglePortal string `toml:"ERC1155SinglePortal"`
	ERC1155BatchPortal  string `toml:"ERC1155BatchPortal"`
	AddressRelay        string `toml:"AddressRelay"`
}

// Load loads the configuration from the given path. A missing file is
// created with defaults so a first run needs no manual setup.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if _, err := cfg.PortalBook(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RollupURL) == "" {
		cfg.RollupURL = "http://127.0.0.1:5004"
	}
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8080"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./wallet-data"
	}
}

// PortalBook resolves the portal overrides against the defaults.
func (c *Config) PortalBook() (rollups.PortalBook, error) {
	book := rollups.DefaultPortalBook()
	overrides := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"EtherPortal", c.Portals.EtherPortal, &book.EtherPortal},
		{"ERC20Portal", c.Portals.ERC20Portal, &book.ERC20Portal},
		{"ERC721Portal", c.Portals.ERC721Portal, &book.ERC721Portal},
		{"ERC1155SinglePortal", c.Portals.ERC1155SinglePortal, &book.ERC1155SinglePortal},
		{"ERC1155BatchPortal", c.Portals.ERC1155BatchPortal, &book.ERC1155BatchPortal},
		{"AddressRelay", c.Portals.AddressRelay, &book.DAppAddressRelay},
	}
	for _, o := range overrides {
		value := strings.TrimSpace(o.value)
		if value == "" {
			continue
		}
		if !common.IsHexAddress(value) {
			return rollups.PortalBook{}, fmt.Errorf("config: Portals.%s %q is not a hex address", o.name, o.value)
		}
		*o.dst = common.HexToAddress(value)
	}
	return book, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if err := persist(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
