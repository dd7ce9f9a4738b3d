package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
	"github.com/goliatone/go-intake/pkg/submission"
)

type rootFlags struct {
	configPath string
	endpoint   string
	env        string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "intake-cli",
		Short:         "Collect booking setup details and submit them to the workflow service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd.Context(), flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (YAML, JSON or TOML); defaults to "+config.DefaultPath+" when present")
	pf.StringVar(&flags.env, "env", "", "development or production")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "workflow-creation endpoint")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log submission details")

	cmd.AddCommand(newRenderCmd(flags))
	return cmd
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(flags.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Apply(config.Overrides{Env: flags.env, Endpoint: flags.endpoint}); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func runSession(ctx context.Context, flags *rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if flags.verbose {
		if logger, err = logging.New(cfg.Env); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	controller, err := intake.NewController(
		intake.WithEndpoint(cfg.Endpoint),
		intake.WithHTTPClient(&http.Client{Timeout: config.Timeout(cfg.RequestTimeout)}),
		intake.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	session, err := tui.New(tui.WithOutput(os.Stdout))
	if err != nil {
		return fmt.Errorf("initialize prompts: %w", err)
	}

	snap, err := session.Session(ctx, controller)
	switch {
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		return &exitError{code: exitAborted}
	case err != nil:
		return fmt.Errorf("session failed: %w", err)
	case snap.Status == submission.StatusError:
		return &exitError{code: exitFailed}
	default:
		return nil
	}
}
