package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/axiomlane/tradecore/engine"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/log"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "start the trading core and its read-only status server",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Value: ":8090", Usage: "address for the status HTTP server"},
		&cli.DurationFlag{Name: "reconcile-poll-interval", Value: 2 * time.Second, Usage: "how often to poll GetOrderInfo for unresolved creates"},
	},
	Action: runServe,
}

func runServe(c *cli.Context) error {
	cfg, _, err := loadMergedConfig(c)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	eng := engine.New(nil, engine.NoopClient{}, c.Duration("reconcile-poll-interval"))
	for _, ex := range cfg.Exchanges {
		accountID, err := exchange.ParseAccountId(ex.ExchangeAccountId)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		if err := eng.Exchanges.Add(accountID, engine.NoopClient{}); err != nil {
			return fmt.Errorf("serve: registering %s: %w", accountID, err)
		}
		log.Infof(log.Engine, "registered account %s with %d configured markets, awaiting a concrete exchange adapter", accountID, len(ex.Markets))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: c.String("listen"), Handler: eng.Status}
	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()
	log.Infof(log.Engine, "status server listening on %s", c.String("listen"))

	select {
	case <-ctx.Done():
		log.Infoln(log.Engine, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: status server: %w", err)
		}
		return nil
	}
}
