// Command tradecore runs the trading core: it loads the main configuration
// and credentials files, assembles an engine.Engine, and serves the
// read-only status surface until interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/axiomlane/tradecore/log"
)

func main() {
	app := &cli.App{
		Name:  "tradecore",
		Usage: "multi-exchange trading core",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "path to the main config file"},
			&cli.StringFlag{Name: "credentials", Aliases: []string{"creds"}, Value: "credentials.yaml", Usage: "path to the credentials file"},
		},
		Commands: []*cli.Command{
			serveCommand,
			configCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorln(log.Global, fmt.Errorf("tradecore: %w", err))
		os.Exit(1)
	}
}
