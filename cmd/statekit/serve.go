package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/statekit/internal/config"
	"github.com/vango-dev/statekit/internal/errors"
	"github.com/vango-dev/statekit/pkg/delay"
)

type serveOptions struct {
	configPath  string
	addr        string
	doc         string
	defaultDoc  string
	resyncAfter time.Duration
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a resettable document",
		Long: `Serve a JSON document over HTTP and WebSocket.

The document loaded at startup is the baseline: GET /dirty reports
whether edits moved away from it and POST /reset restores it.

Examples:
  statekit serve --doc state.json
  statekit serve --addr :8080 --default factory.json
  statekit serve --doc state.json --resync-after 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to statekit.json (default: ./statekit.json if present)")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from statekit.json)")
	cmd.Flags().StringVarP(&opts.doc, "doc", "d", "", "Initial JSON document (default from statekit.json)")
	cmd.Flags().StringVar(&opts.defaultDoc, "default", "", "JSON document restored by reset instead of the baseline")
	cmd.Flags().DurationVar(&opts.resyncAfter, "resync-after", 0, "Rebase the baseline once after this long")

	return cmd
}

func loadServeConfig(opts serveOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}

	if opts.addr != "" {
		host, port, err := splitAddr(opts.addr)
		if err != nil {
			return nil, errors.New("S102").Wrap(err)
		}
		cfg.Inspector.Host = host
		cfg.Inspector.Port = port
	}
	if opts.doc != "" {
		cfg.Inspector.Doc = opts.doc
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	a := &app{ctx: ctx, cfg: cfg}
	// A --doc flag is relative to the working directory, not statekit.json.
	docPath := cfg.DocPath()
	if opts.doc != "" {
		docPath = opts.doc
	}
	if docPath != "" {
		if a.initial, err = loadDocument(docPath); err != nil {
			return err
		}
	}
	if opts.defaultDoc != "" {
		if a.customDefault, err = loadDocument(opts.defaultDoc); err != nil {
			return err
		}
	}

	if err := bootstrap.InstallAll(a); err != nil {
		return err
	}

	success("Inspector ready at http://%s", cfg.Address())
	info("Modules: %v", bootstrap.Names())

	if opts.resyncAfter > 0 {
		go func() {
			err := delay.Delay(ctx, opts.resyncAfter, func(context.Context) error {
				a.server.Resync()
				a.logger.Info("baseline rebased", "after", opts.resyncAfter)
				return nil
			})
			if err != nil {
				a.logger.Debug("scheduled resync cancelled", "error", err)
			}
		}()
	}

	if err := a.server.ListenAndServe(ctx, cfg.Address()); err != nil {
		return errors.New("S140").Wrap(err)
	}
	return nil
}
