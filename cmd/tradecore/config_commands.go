package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/axiomlane/tradecore/config"
)

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "validate and rewrite tradecore configuration",
	Subcommands: []*cli.Command{
		{
			Name:  "validate",
			Usage: "load the main config and credentials file and report any validation error",
			Action: func(c *cli.Context) error {
				_, _, err := loadMergedConfig(c)
				if err != nil {
					return err
				}
				fmt.Println("config OK")
				return nil
			},
		},
		{
			Name:  "rotate-credentials",
			Usage: "rewrite the credentials file with a fresh extraction from the merged config",
			Action: func(c *cli.Context) error {
				cfg, _, err := loadMergedConfig(c)
				if err != nil {
					return err
				}
				stripped, creds := config.ExtractCredentials(cfg)
				if err := config.SaveMainConfig(c.String("config"), stripped); err != nil {
					return err
				}
				return config.SaveCredentialsFile(c.String("credentials"), creds)
			},
		},
	},
}

// loadMergedConfig loads the main config and credentials files named by the
// global --config/--credentials flags, merges credentials into the
// exchange entries, and validates the result.
func loadMergedConfig(c *cli.Context) (*config.MainConfig, *config.CredentialsFile, error) {
	cfg, err := config.LoadMainConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	creds, err := config.LoadCredentialsFile(c.String("credentials"))
	if err != nil {
		return nil, nil, err
	}
	if err := config.MergeCredentials(cfg, creds); err != nil {
		return nil, nil, err
	}
	return cfg, creds, nil
}
