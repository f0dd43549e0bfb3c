// Command jokes is a terminal client for the jokes API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/briangreenhill/jokeshelf/internal/client"
	"github.com/briangreenhill/jokeshelf/internal/config"
	"github.com/briangreenhill/jokeshelf/internal/storage"
)

type rootFlags struct {
	api      string
	stateDir string
	page     int
	pageSize int
	verbose  bool
}

// app holds what every subcommand needs, built once per invocation
type app struct {
	out    io.Writer
	store  *client.JokesStore
	pages  *client.Pagination
	router *client.MemoryRouter
	log    zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:   "jokes",
		Short: "Browse, rate and curate jokes from the jokes API",
		Long: `jokes talks to the jokes API server.

The server URL comes from VITE_API_BASE_URL (or --api). Page size and the
number of jokes to show are remembered between runs in JOKES_STATE_DIR.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.api, "api", "", "jokes API base URL (or set VITE_API_BASE_URL)")
	root.PersistentFlags().StringVar(&flags.stateDir, "state-dir", "", "directory for saved settings (or set JOKES_STATE_DIR)")
	root.PersistentFlags().IntVarP(&flags.page, "page", "p", 0, "page to show")
	root.PersistentFlags().IntVar(&flags.pageSize, "page-size", 0, "jokes per page, saved for later runs")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(a),
		newRandomCmd(a),
		newSortCmd(a),
		newRemoveCmd(a),
		newClearCmd(a),
		newRateCmd(a),
		newResetCmd(a),
		newPageSizeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, flags *rootFlags) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if flags.api != "" {
		if err := os.Setenv("VITE_API_BASE_URL", flags.api); err != nil {
			return err
		}
	}
	if flags.stateDir != "" {
		if err := os.Setenv("JOKES_STATE_DIR", flags.stateDir); err != nil {
			return err
		}
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).With().Timestamp().Logger()
	a.out = cmd.OutOrStdout()

	st, err := storage.NewFileStorage(cfg.StateDir)
	if err != nil {
		return err
	}
	api, err := client.NewHTTPService(cfg.APIBaseURL)
	if err != nil {
		return err
	}

	q := client.Query{}
	if flags.page != 0 {
		q["page"] = strconv.Itoa(flags.page)
	}
	a.router = client.NewMemoryRouter(q)
	a.pages, err = client.NewPagination(a.router, st)
	if err != nil {
		return err
	}
	if flags.pageSize != 0 {
		if err := a.pages.SetPageSize(flags.pageSize); err != nil {
			return err
		}
	}

	a.store, err = client.NewJokesStore(client.StoreOptions{
		API:                api,
		Pagination:         a.pages,
		Storage:            st,
		Notifier:           client.WriterNotifier{W: cmd.ErrOrStderr()},
		Policy:             cfg.ErrorPolicy,
		DefaultJokesNumber: cfg.TotalJokesNumber,
		Logger:             a.log,
	})
	if err != nil {
		return fmt.Errorf("create jokes store: %w", err)
	}
	a.log.Debug().Str("api", cfg.APIBaseURL).Str("state_dir", cfg.StateDir).Msg("client ready")
	return nil
}
