// Package config loads and saves tradecore's two configuration files: a
// main configuration (exchanges, markets, strategy parameters) and a
// credentials file (api_key/secret_key keyed by exchange account id). The
// loader merges credentials into exchange entries at boot; the saver
// extracts them back out so the main config never touches disk with
// secrets embedded, mirroring the split the teacher enforces between
// config.json and a separate encrypted credentials blob.
package config

import (
	"fmt"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/axiomlane/tradecore/log"
)

// ExchangeConfig declares one exchange account and the markets tradecore
// should maintain order books and reservations for on it. APIKey/SecretKey
// are populated by MergeCredentials and must be empty in the file saved by
// SaveMainConfig.
type ExchangeConfig struct {
	ExchangeAccountId string   `mapstructure:"exchange_account_id" yaml:"exchange_account_id"`
	Markets           []string `mapstructure:"markets" yaml:"markets"`
	APIKey            string   `mapstructure:"api_key,omitempty" yaml:"api_key,omitempty"`
	SecretKey         string   `mapstructure:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// StrategyConfig is an opaque, strategy-defined parameter bag; tradecore's
// core does not interpret Params, it only carries them to the strategy
// handle at startup.
type StrategyConfig struct {
	Name   string         `mapstructure:"name" yaml:"name"`
	Params map[string]any `mapstructure:"params" yaml:"params"`
}

// MainConfig is the top-level configuration file.
type MainConfig struct {
	Exchanges  []ExchangeConfig `mapstructure:"exchanges" yaml:"exchanges"`
	Strategies []StrategyConfig `mapstructure:"strategies" yaml:"strategies"`
}

// Credential is one exchange account's API secret material.
type Credential struct {
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
}

// CredentialsFile keys Credential by the same exchange_account_id string
// used in ExchangeConfig.
type CredentialsFile struct {
	Credentials map[string]Credential `mapstructure:"credentials" yaml:"credentials"`
}

// LoadMainConfig reads and validates the main config file at path.
func LoadMainConfig(path string) (*MainConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read main config")
	}

	var cfg MainConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal main config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCredentialsFile reads the credentials file at path.
func LoadCredentialsFile(path string) (*CredentialsFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read credentials file")
	}

	var creds CredentialsFile
	if err := v.Unmarshal(&creds); err != nil {
		return nil, errors.Wrap(err, "unmarshal credentials file")
	}
	return &creds, nil
}

// Validate checks that every exchange entry names an account and at least
// one market. It does not check for credentials — that is MergeCredentials'
// job, since a MainConfig is well-formed before credentials are merged.
func Validate(cfg *MainConfig) error {
	for i := range cfg.Exchanges {
		ex := &cfg.Exchanges[i]
		err := vala.BeginValidation().Validate(
			vala.StringNotEmpty(ex.ExchangeAccountId, fmt.Sprintf("exchanges[%d].exchange_account_id", i)),
			vala.Not(vala.Equals(len(ex.Markets), 0, fmt.Sprintf("exchanges[%d].markets", i))),
		).Check()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// MergeCredentials merges creds into cfg's exchange entries, matched by
// ExchangeAccountId. It fails fast, naming the offending account, if any
// exchange in cfg has no corresponding credentials entry.
func MergeCredentials(cfg *MainConfig, creds *CredentialsFile) error {
	for i := range cfg.Exchanges {
		ex := &cfg.Exchanges[i]
		cred, ok := creds.Credentials[ex.ExchangeAccountId]
		if !ok {
			return fmt.Errorf("config: missing credentials for exchange account %q", ex.ExchangeAccountId)
		}
		ex.APIKey = cred.APIKey
		ex.SecretKey = cred.SecretKey
	}
	return nil
}

// ExtractCredentials splits cfg's merged-in API keys back out into a
// CredentialsFile, returning a new MainConfig with those fields cleared.
// ExtractCredentials is the inverse of MergeCredentials: for any cfg
// produced by MergeCredentials(original, creds), calling
// MergeCredentials(ExtractCredentials(cfg)) reproduces cfg.
func ExtractCredentials(cfg *MainConfig) (*MainConfig, *CredentialsFile) {
	stripped := &MainConfig{
		Exchanges:  make([]ExchangeConfig, len(cfg.Exchanges)),
		Strategies: cfg.Strategies,
	}
	creds := &CredentialsFile{Credentials: make(map[string]Credential, len(cfg.Exchanges))}

	for i, ex := range cfg.Exchanges {
		creds.Credentials[ex.ExchangeAccountId] = Credential{APIKey: ex.APIKey, SecretKey: ex.SecretKey}
		stripped.Exchanges[i] = ExchangeConfig{
			ExchangeAccountId: ex.ExchangeAccountId,
			Markets:           ex.Markets,
		}
	}
	return stripped, creds
}

// SaveMainConfig writes cfg to path as YAML. Callers must pass a config
// produced by ExtractCredentials, not one with credentials merged in, or
// secrets end up on disk in the main config file.
func SaveMainConfig(path string, cfg *MainConfig) error {
	return writeYAML(path, cfg)
}

// SaveCredentialsFile writes creds to path as YAML.
func SaveCredentialsFile(path string, creds *CredentialsFile) error {
	return writeYAML(path, creds)
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", path)
	}
	if err := writeFile(path, data); err != nil {
		wrapped := errors.Wrapf(err, "write %s", path)
		log.Errorln(log.Global, wrapped)
		return wrapped
	}
	return nil
}
