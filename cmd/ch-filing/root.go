package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-chfiling/internal/storage"
	"github.com/sirosfoundation/go-chfiling/pkg/filing"
	"github.com/sirosfoundation/go-chfiling/pkg/gateway"
	"github.com/sirosfoundation/go-chfiling/pkg/state"
)

// keyErrorCodes is the configuration key overriding the GovTalk error
// numbers, e.g. {"error-codes": {"validation": 101}}
const keyErrorCodes = "error-codes"

type rootOptions struct {
	configPath        string
	stateLocation     string
	stateKey          string
	url               string
	timeout           time.Duration
	submissionIDWidth int
	verbose           bool
}

// app holds what PersistentPreRunE sets up for the subcommands
type app struct {
	opts        *rootOptions
	openBackend func(ctx context.Context, location string, opts storage.Options) (storage.Store, error)
	logger      *slog.Logger
	backend     storage.Store
	store       *state.Store
	client      *gateway.Client
	svc         *filing.Service
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{opts: &rootOptions{}, openBackend: storage.Open}

	root := &cobra.Command{
		Use:   "ch-filing",
		Short: "Companies House XML Gateway filing client",
		Long: `ch-filing talks to the Companies House XML Gateway: it checks company
credentials, submits accounts, requests accounts images and queries the
status of earlier submissions.

Transaction and submission counters are kept in the state location, a JSON
file or a mongodb:// URI, and must not be shared between concurrent runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.configPath, "config", "c", "config.json", "configuration file (JSON, YAML or TOML)")
	flags.StringVarP(&a.opts.stateLocation, "state", "s", "state.json", "counter state: file path or mongodb:// URI")
	flags.StringVar(&a.opts.stateKey, "state-key", "", "counter document id when --state is a MongoDB URI")
	flags.StringVar(&a.opts.url, "url", "", "gateway URL (overrides the url configuration key)")
	flags.DurationVar(&a.opts.timeout, "timeout", 30*time.Second, "HTTP request timeout")
	flags.IntVar(&a.opts.submissionIDWidth, "submission-id-width", state.DefaultSubmissionIDWidth, "digits in generated submission ids")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCompanyDataCmd(a),
		newSubmitAccountsCmd(a),
		newSubmissionStatusCmd(a),
		newAccountsImageCmd(a),
	)

	return root, a
}

// execute runs root and closes the counter backend however the command ends
func execute(root *cobra.Command, a *app) (err error) {
	defer func() {
		err = errors.Join(err, a.close(context.Background()))
	}()
	return root.Execute()
}

func (a *app) setup(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level := slog.LevelWarn
	if a.opts.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	backend, err := a.openBackend(ctx, a.opts.stateLocation, storage.Options{Key: a.opts.stateKey})
	if err != nil {
		return fmt.Errorf("opening counter state: %w", err)
	}
	a.backend = backend

	store, err := state.Open(ctx, a.opts.configPath, backend,
		state.WithSubmissionIDWidth(a.opts.submissionIDWidth),
		state.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.store = store

	endpoint := a.opts.url
	if endpoint == "" {
		endpoint = store.GetString(state.KeyURL)
	}
	if endpoint == "" {
		endpoint = gateway.DefaultEndpoint
	}

	codes := gateway.DefaultErrorCodes()
	if err := store.Config().Decode(keyErrorCodes, &codes); err != nil {
		return err
	}

	httpConfig := gateway.DefaultHTTPConfig()
	httpConfig.Timeout = a.opts.timeout

	a.client = gateway.NewClient(&gateway.ClientConfig{
		Endpoint:   endpoint,
		HTTP:       httpConfig,
		ErrorCodes: &codes,
		Logger:     a.logger,
	})
	a.svc = filing.NewService(store, a.client, filing.WithLogger(a.logger))

	a.logger.Debug("client ready", "endpoint", endpoint, "state", a.opts.stateLocation)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.backend == nil {
		return nil
	}
	backend := a.backend
	a.backend = nil
	return backend.Close(ctx)
}

func readAccounts(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--accounts must be specified")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return data, nil
}
