package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/spanpump/authrpc"
	"github.com/teranos/spanpump/config"
	"github.com/teranos/spanpump/ingest/columnar"
	"github.com/teranos/spanpump/ingest/poller"
	"github.com/teranos/spanpump/ingest/reader"
	"github.com/teranos/spanpump/ingest/resume"
	"github.com/teranos/spanpump/logger"
	"github.com/teranos/spanpump/rowstore"
)

// shutdownGrace bounds how long the poller's in-flight batch is given to
// finish once a termination signal arrives, mirroring the worker pool's
// drain timeout. The auth server starts a GracefulStop on the same signal,
// but run does not wait for it: in-flight RPCs have no grace period of
// their own and end when run returns.
const shutdownGrace = 30 * time.Second

// RunCmd starts the poller loop and the internal auth RPC server under a
// single cancellation context, and runs until SIGINT/SIGTERM or until the
// auth RPC server exits.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the span ingestion poller and auth RPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func run(parent context.Context) error {
	log := logger.ComponentLogger("spanpump")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rowDB, err := rowstore.OpenWithMigrations(cfg.Storage.RowStorePath, log)
	if err != nil {
		return err
	}
	defer rowDB.Close()

	gateway, err := columnar.Open(cfg.Storage.ColumnarStorePath)
	if err != nil {
		return err
	}
	defer gateway.Close()
	if err := gateway.Bootstrap(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Ingestion.Host, cfg.Ingestion.Port)
	upstream, err := reader.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer upstream.Close()

	cursors := resume.New(rowDB)
	keys := rowstore.NewAPIKeyRepository(rowDB)

	p := poller.New(poller.Config{
		PollInterval: time.Duration(cfg.Poller.PollIntervalSeconds) * time.Second,
		BatchSize:    cfg.Poller.BatchSize,
		StrictMode:   cfg.Poller.StrictMode,
	}, upstream, gateway, cursors, logger.ComponentLogger("poller"))

	authSrv := authrpc.New(keys, logger.ComponentLogger("authrpc"))
	authAddr := fmt.Sprintf(":%d", cfg.AuthServer.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- authrpc.Serve(ctx, authAddr, authSrv)
	}()
	go p.Start(ctx)

	log.Infow("spanpump started", "ingestion_addr", addr, "auth_addr", authAddr)

	select {
	case <-ctx.Done():
		log.Infow("shutdown signal received, draining")
	case err := <-errCh:
		if err != nil {
			log.Errorw("auth rpc server exited unexpectedly", "error", err)
		}
	}

	p.Stop(shutdownGrace)
	return nil
}
