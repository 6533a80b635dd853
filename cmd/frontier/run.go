package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/frontier/config"
	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/explore"
	"github.com/poiesic/frontier/problem/walk"
	"github.com/poiesic/frontier/storage/badger"
)

const problemName = "walk"

// loadRunConfig loads the config file and applies command-line overrides.
func loadRunConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("max-iterations") {
		cfg.MaxIterations = c.Int64("max-iterations")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runCommand(c *cli.Context) error {
	cfg, err := loadRunConfig(c)
	if err != nil {
		return err
	}
	logger := slog.Default()

	if path := c.String("trace-file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		shutdown, err := setupTracing(f)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("failed to flush traces", "err", err)
			}
		}()
	}

	prob, err := walk.New(cfg.WalkParams())
	if err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}

	ctx, stopSignals := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	if d := c.Duration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	explorer, err := explore.New[walk.State](prob, append(cfg.Options(), explore.WithLogger(logger))...)
	if err != nil {
		return fmt.Errorf("failed to create explorer: %w", err)
	}
	if err := explorer.Start(ctx, cfg.Workers); err != nil {
		return fmt.Errorf("failed to start explorer: %w", err)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		select {
		case <-explorer.Done():
		case <-gctx.Done():
		}
		defer cancelRun()
		return explorer.Stop()
	})

	interval := c.Duration("report-interval")
	if interval > 0 {
		rep := newReporter(c.App.ErrWriter, explorer, interval)
		g.Go(func() error {
			rep.Run(gctx)
			return nil
		})
	}

	if addr := c.String("metrics-addr"); addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	rec, err := exportBest(explorer, cfg.Seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Best score: %.3f after %d inputs (%d nodes)\n", rec.Score, rec.Inputs(), rec.Nodes)

	if dbPath := c.String("db"); dbPath != "" {
		if err := saveRecording(c.Context, dbPath, rec); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Saved recording %s\n", rec.ID)
	}
	return nil
}

// exportBest builds a recording of the path to the best node in the tree.
func exportBest[S any](e *explore.Explorer[S], seed uint64) (*core.Recording, error) {
	tr := e.Tree()
	if tr == nil {
		return nil, errors.New("no tree was built")
	}
	best, score := tr.Best()
	return core.NewRecording(problemName, seed, score, tr.NodeCount(), tr.Path(best)), nil
}

func saveRecording(ctx context.Context, dbPath string, rec *core.Recording) error {
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordingRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	if err := repo.SaveRecording(ctx, rec); err != nil {
		return fmt.Errorf("failed to save recording: %w", err)
	}
	return nil
}
