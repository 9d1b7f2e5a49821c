package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func contextWithFlags(t *testing.T, configPath, credsPath string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("config", configPath, "")
	set.String("credentials", credsPath, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadMergedConfigMergesCredentials(t *testing.T) {
	t.Parallel()
	configPath := writeTempFile(t, "config.yaml", `
exchanges:
  - exchange_account_id: binance#0
    markets: [BTC-USDT]
`)
	credsPath := writeTempFile(t, "credentials.yaml", `
credentials:
  binance#0:
    api_key: key
    secret_key: secret
`)

	cfg, _, err := loadMergedConfig(contextWithFlags(t, configPath, credsPath))
	require.NoError(t, err)
	require.Len(t, cfg.Exchanges, 1)
	require.Equal(t, "key", cfg.Exchanges[0].APIKey)
}

func TestLoadMergedConfigFailsOnMissingCredentials(t *testing.T) {
	t.Parallel()
	configPath := writeTempFile(t, "config.yaml", `
exchanges:
  - exchange_account_id: kraken#0
    markets: [ETH-USDT]
`)
	credsPath := writeTempFile(t, "credentials.yaml", `
credentials: {}
`)

	_, _, err := loadMergedConfig(contextWithFlags(t, configPath, credsPath))
	require.Error(t, err)
}
