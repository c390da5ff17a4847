// Package config implements the application's recognized options
// (spec §6), loaded from the TOML file named by the CLI's --config flag, in the
// teacher's own eth/ethconfig.Config/Defaults convention (gencodec
// directive omitted here since this Config has no generated variant
// needing unexported-field passthrough).
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/autonity/emerald/engine"
	"github.com/autonity/emerald/types"
)

// NodeType mirrors el_node_type, affecting pruning decisions (§6): an
// archive node never prunes regardless of MaxRetainBlocks.
type NodeType string

const (
	NodeTypeArchive NodeType = "archive"
	NodeTypeFull    NodeType = "full"
	NodeTypeCustom  NodeType = "custom"
)

// Config holds every recognized option from spec §6's configuration
// table, plus the ambient fields (data directory, log level, metrics
// address) every teacher-style node config carries.
type Config struct {
	DataDir string `toml:",omitempty"`

	EngineAuthRPCAddress    string
	ExecutionAuthRPCAddress string
	JWTTokenPath            string
	PrivateKeyPath          string
	GenesisPath             string

	FeeRecipient common.Address

	MinBlockTime         time.Duration
	MaxRetainBlocks      types.Height
	PruneAtBlockInterval types.Height
	ELNodeType           NodeType

	RetryConfig engine.RetryConfig

	ValidationCacheSize int

	LogLevel    string
	MetricsAddr string `toml:",omitempty"`
}

// Defaults mirrors the teacher's Defaults package value, seeded with
// the same shape of reasonable out-of-the-box settings.
var Defaults = Config{
	EngineAuthRPCAddress:    "http://127.0.0.1:8551",
	ExecutionAuthRPCAddress: "http://127.0.0.1:8545",
	JWTTokenPath:            "jwt.hex",
	GenesisPath:             "genesis.json",
	MinBlockTime:            0,
	MaxRetainBlocks:         0, // 0 disables pruning
	PruneAtBlockInterval:    256,
	ELNodeType:              NodeTypeFull,
	RetryConfig:             engine.DefaultRetryConfig,
	ValidationCacheSize:     1024,
	LogLevel:                "info",
}

// init resolves Defaults.DataDir the same way as the teacher's
// eth/ethconfig init(): $HOME (or the OS user lookup as a fallback),
// joined per-GOOS.
func init() {
	home := os.Getenv("HOME")
	if home == "" {
		if u, err := user.Current(); err == nil {
			home = u.HomeDir
		}
	}
	switch runtime.GOOS {
	case "darwin":
		Defaults.DataDir = filepath.Join(home, "Library", "Emerald")
	case "windows":
		if appdata := os.Getenv("LOCALAPPDATA"); appdata != "" {
			Defaults.DataDir = filepath.Join(appdata, "Emerald")
		} else {
			Defaults.DataDir = filepath.Join(home, "AppData", "Local", "Emerald")
		}
	default:
		Defaults.DataDir = filepath.Join(home, ".emerald")
	}
}

// Validate checks every field with a semantic constraint, fatal at
// startup if violated (§6, §7).
func (c Config) Validate() error {
	if c.EngineAuthRPCAddress == "" {
		return fmt.Errorf("config: engine_authrpc_address is required")
	}
	if c.ExecutionAuthRPCAddress == "" {
		return fmt.Errorf("config: execution_authrpc_address is required")
	}
	if c.JWTTokenPath == "" {
		return fmt.Errorf("config: jwt_token_path is required")
	}
	if c.PrivateKeyPath == "" {
		return fmt.Errorf("config: private key path is required")
	}
	switch c.ELNodeType {
	case NodeTypeArchive, NodeTypeFull, NodeTypeCustom:
	default:
		return fmt.Errorf("config: unrecognized el_node_type %q", c.ELNodeType)
	}
	if err := c.RetryConfig.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.ValidationCacheSize <= 0 {
		return fmt.Errorf("config: validation cache size must be positive")
	}
	return nil
}

// StoreDir is the directory store.db is opened under (§6).
func (c Config) StoreDir() string {
	return filepath.Join(c.DataDir, "store.db")
}
