// Package config loads the client configuration from a YAML file with
// sensible mainnet defaults and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"

	"govsig-go/internal/governance"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "GOVSIG_CONFIG"

type Config struct {
	RPCURL       string `yaml:"rpcUrl"`
	WSURL        string `yaml:"wsUrl"`
	ProgramID    string `yaml:"programId"`
	KeypairPath  string `yaml:"keypairPath"`
	KeystorePath string `yaml:"keystorePath"`
	HistoryPath  string `yaml:"historyPath"`
	Commitment   string `yaml:"commitment"`
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		RPCURL:       rpc.MainNetBeta_RPC,
		WSURL:        rpc.MainNetBeta_WS,
		ProgramID:    governance.DefaultProgramID.String(),
		KeypairPath:  filepath.Join(home, ".config", "solana", "id.json"),
		KeystorePath: filepath.Join(home, ".govsig", "keystore.json"),
		HistoryPath:  filepath.Join(home, ".govsig", "history.db"),
		Commitment:   string(rpc.CommitmentConfirmed),
	}
}

// Load reads the config from configPath, falling back to GOVSIG_CONFIG
// and then ~/.govsig/config.yaml. A missing file yields the defaults.
func Load(configPath string) (Config, error) {
	cfg := Default()

	candidates := make([]string, 0, 3)
	if configPath != "" {
		candidates = append(candidates, configPath)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		candidates = append(candidates, env)
	}
	home, _ := os.UserHomeDir()
	candidates = append(candidates, filepath.Join(home, ".govsig", "config.yaml"))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		merge(&cfg, parsed)
		break
	}

	return cfg, cfg.validate()
}

func merge(dst *Config, src Config) {
	if src.RPCURL != "" {
		dst.RPCURL = src.RPCURL
	}
	if src.WSURL != "" {
		dst.WSURL = src.WSURL
	}
	if src.ProgramID != "" {
		dst.ProgramID = src.ProgramID
	}
	if src.KeypairPath != "" {
		dst.KeypairPath = src.KeypairPath
	}
	if src.KeystorePath != "" {
		dst.KeystorePath = src.KeystorePath
	}
	if src.HistoryPath != "" {
		dst.HistoryPath = src.HistoryPath
	}
	if src.Commitment != "" {
		dst.Commitment = src.Commitment
	}
}

func (c Config) validate() error {
	if _, err := solana.PublicKeyFromBase58(c.ProgramID); err != nil {
		return fmt.Errorf("invalid program id %q: %w", c.ProgramID, err)
	}
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", c.Commitment)
	}
	return nil
}

// Program returns the parsed governance program ID.
func (c Config) Program() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.ProgramID)
}
