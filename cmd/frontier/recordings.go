package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/frontier/config"
	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/problem"
	"github.com/poiesic/frontier/problem/walk"
	"github.com/poiesic/frontier/storage"
	"github.com/poiesic/frontier/storage/badger"
)

// withRepository opens the database at dbPath for the duration of fn.
func withRepository(dbPath string, fn func(repo storage.RecordingRepository) error) error {
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

	return fn(repo)
}

func listRecordingsCommand(c *cli.Context) error {
	return withRepository(c.String("db"), func(repo storage.RecordingRepository) error {
		recs, err := repo.ListRecordings(c.Context, c.Int("limit"))
		if err != nil {
			return fmt.Errorf("failed to list recordings: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintln(c.App.Writer, "No recordings")
			return nil
		}
		for _, rec := range recs {
			fmt.Fprintf(c.App.Writer, "%s  %s  %-6s score=%.3f inputs=%d nodes=%d\n",
				rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Problem,
				rec.Score, rec.Inputs(), rec.Nodes)
		}
		return nil
	})
}

func showRecordingCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one recording id")
	}
	id, err := core.ParseRecordingID(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid recording id: %w", err)
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	return withRepository(c.String("db"), func(repo storage.RecordingRepository) error {
		rec, err := repo.GetRecording(c.Context, id)
		if err != nil {
			return fmt.Errorf("failed to get recording: %w", err)
		}
		printRecording(c.App.Writer, rec)

		if rec.Problem != problemName {
			return nil
		}
		prob, err := walk.New(cfg.WalkParams())
		if err != nil {
			return fmt.Errorf("failed to create problem: %w", err)
		}
		final, err := replay[walk.State](c.Context, prob, rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Replay ends at (%d,%d) after %d moves, distance %.0f\n",
			final.X, final.Y, final.Moves, math.Abs(float64(final.X))+math.Abs(float64(final.Y)))
		return nil
	})
}

func printRecording(w io.Writer, rec *core.Recording) {
	fmt.Fprintf(w, "ID:       %s\n", rec.ID)
	fmt.Fprintf(w, "Created:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Problem:  %s\n", rec.Problem)
	fmt.Fprintf(w, "Seed:     %d\n", rec.Seed)
	fmt.Fprintf(w, "Score:    %.3f\n", rec.Score)
	fmt.Fprintf(w, "Nodes:    %d\n", rec.Nodes)
	fmt.Fprintf(w, "Steps:    %d (%d inputs)\n", len(rec.Steps), rec.Inputs())
}

// replay applies every input of rec to a fresh worker of p.
func replay[S any](ctx context.Context, p problem.Problem[S], rec *core.Recording) (S, error) {
	w := p.CreateWorker()
	if err := w.Init(); err != nil {
		var zero S
		return zero, fmt.Errorf("failed to init worker: %w", err)
	}
	for _, step := range rec.Steps {
		if err := ctx.Err(); err != nil {
			var zero S
			return zero, err
		}
		for _, in := range step {
			w.Exec(in)
		}
	}
	return w.Save(), nil
}
