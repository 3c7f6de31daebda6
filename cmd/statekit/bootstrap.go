package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/statekit/internal/config"
	"github.com/vango-dev/statekit/internal/errors"
	"github.com/vango-dev/statekit/internal/inspector"
	"github.com/vango-dev/statekit/internal/metrics"
	"github.com/vango-dev/statekit/pkg/modules"
	"github.com/vango-dev/statekit/pkg/pref"
)

// app is what the serve command assembles before it starts listening.
type app struct {
	ctx context.Context
	cfg *config.Config

	// initial and customDefault are the loaded documents, nil when unset.
	initial       map[string]any
	customDefault map[string]any

	logger    *slog.Logger
	metrics   *metrics.Metrics
	store     *pref.AppStore
	persister pref.Persister
	server    *inspector.Server
}

// bootstrap installs the serve command's parts in order.
var bootstrap = modules.NewRegistry[*app]()

func init() {
	bootstrap.MustRegister(modules.Func("logging", installLogging))
	bootstrap.MustRegister(modules.Func("metrics", installMetrics))
	bootstrap.MustRegister(modules.Func("prefs", installPrefs))
	bootstrap.MustRegister(modules.Func("inspector", installInspector))
}

func installLogging(a *app) error {
	level, err := a.cfg.Level()
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	bootstrap.WithLogger(a.logger)
	return nil
}

func installMetrics(a *app) error {
	a.metrics = metrics.New(metrics.WithNamespace(a.cfg.Metrics.Namespace))
	return nil
}

func installPrefs(a *app) error {
	switch a.cfg.Prefs.Backend {
	case config.BackendFile:
		a.persister = pref.NewFilePersister(a.cfg.PrefsDir())
	case config.BackendS3:
		a.persister = pref.NewS3Persister(newS3Client(), a.cfg.Prefs.Bucket, a.cfg.Prefs.Prefix)
	default:
		a.persister = pref.NewMemoryPersister()
	}

	a.store = pref.NewAppStore()
	if err := a.store.Load(a.ctx, a.persister); err != nil {
		return errors.New("S141").
			WithDetail(fmt.Sprintf("Could not load preferences from the %s backend", a.cfg.Prefs.Backend)).
			Wrap(err)
	}
	return nil
}

func installInspector(a *app) error {
	opts := []inspector.Option{
		inspector.WithLogger(a.logger),
		inspector.WithMetrics(a.metrics),
		inspector.WithTracerName(a.cfg.Tracing.TracerName),
		inspector.WithAppStore(a.store, a.persister),
	}
	if a.customDefault != nil {
		opts = append(opts, inspector.WithCustomDefault(a.customDefault))
	}

	server, err := inspector.New(a.initial, opts...)
	if err != nil {
		return err
	}
	a.server = server
	return nil
}

// newS3Client builds a client from the standard AWS environment variables.
// AWS_ENDPOINT_URL_S3 points it at an S3-compatible store such as MinIO.
func newS3Client() *s3.Client {
	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})

	cfg := aws.Config{
		Region:      os.Getenv("AWS_REGION"),
		Credentials: aws.NewCredentialsCache(creds),
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("AWS_ENDPOINT_URL_S3"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}
