// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "frontier",
		Usage: "Parallel best-first exploration of a problem's state space",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Explore the walk problem and record the best trajectory",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML config file",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory for recordings",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of exploration threads (overrides config)",
					},
					&cli.Int64Flag{
						Name:  "max-iterations",
						Usage: "Iterations per thread, 0 for unbounded (overrides config)",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Run-wide random seed (overrides config)",
					},
					&cli.DurationFlag{
						Name:  "duration",
						Usage: "Stop after this long, 0 to run until interrupted",
					},
					&cli.DurationFlag{
						Name:  "report-interval",
						Usage: "How often to print thread status",
						Value: 2 * time.Second,
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "Serve Prometheus metrics on this address, e.g. :9090",
					},
					&cli.StringFlag{
						Name:  "trace-file",
						Usage: "Write maintenance trace spans to this file as JSON",
					},
				},
			},
			{
				Name:  "recordings",
				Usage: "Inspect stored trajectories",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recordings, newest first",
						Action: listRecordingsCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of recordings to show, 0 for all",
								Value: 20,
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show a recording and replay it against the walk problem",
						ArgsUsage: "<id>",
						Action:    showRecordingCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Config file describing the walk layout to replay on",
							},
						},
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
