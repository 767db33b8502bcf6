package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	repository "github.com/okian/okrscore/internal/adapters/repository"
	app "github.com/okian/okrscore/internal/app"
	"github.com/okian/okrscore/internal/report"
	"github.com/okian/okrscore/pkg/logger"
)

// errNoSnapshot is returned when --snapshot is not given.
var errNoSnapshot = errors.New("--snapshot is required")

type options struct {
	snapshot string
	format   string
	noColor  bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "okr-report",
		Short: "Print OKR scores from an organization snapshot",
		Long: `okr-report loads a YAML organization snapshot (levels, divisions and
evaluations) and prints the same scores the HTTP service would return.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.snapshot, "snapshot", "s", "", "Path to the YAML organization snapshot")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "console", "Output format (console|json)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log scoring fallbacks to stderr")

	root.AddCommand(
		newDepartmentsCmd(opts),
		newDivisionsCmd(opts),
		newLevelsCmd(opts),
	)
	return root
}

// session is what every subcommand needs: a service and a renderer.
type session struct {
	svc *app.Service
	out *report.Renderer
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	if o.snapshot == "" {
		return nil, errNoSnapshot
	}
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	snap, err := repository.LoadSnapshot(o.snapshot)
	if err != nil {
		return nil, err
	}

	log := logger.NewNop()
	if o.verbose {
		log = logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(slog.LevelDebug), logger.WithCaller(false))
	}
	svc, err := app.NewFromSnapshot(snap, nil, app.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build service: %w", err)
	}
	return &session{
		svc: svc,
		out: report.New(cmd.OutOrStdout(), report.WithFormat(format), report.WithColor(!o.noColor)),
	}, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
