// Command ch-testserver runs a mock Companies House XML Gateway for local
// development and tests.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-chfiling/internal/testserver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type options struct {
	host   string
	port   int
	config testserver.Config
	quiet  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{config: testserver.DefaultConfig()}

	cmd := &cobra.Command{
		Use:           "ch-testserver",
		Short:         "Mock Companies House XML Gateway",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.host, "host", "", "interface to listen on (default all)")
	flags.IntVarP(&opts.port, "port", "p", 8080, "port to listen on")
	flags.StringVar(&opts.config.PresenterID, "presenter-id", opts.config.PresenterID, "expected presenter id")
	flags.StringVar(&opts.config.Authentication, "authentication", opts.config.Authentication, "expected authentication value")
	flags.StringVar(&opts.config.CompanyAuthCode, "company-auth-code", opts.config.CompanyAuthCode, "expected company authentication code")
	flags.BoolVar(&opts.config.FailAuth, "fail-auth", false, "always fail authentication checks")
	flags.DurationVar(&opts.config.Delay, "delay", 0, "delay added to every response, e.g. 500ms")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "log warnings and errors only")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options) error {
	level := slog.LevelInfo
	if opts.quiet {
		level = slog.LevelWarn
	}
	opts.config.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	srv := testserver.New(opts.config)
	addr := opts.host + ":" + strconv.Itoa(opts.port)
	if err := srv.Start(addr); err != nil {
		return err
	}

	printBanner(out, srv.URL(), opts)

	<-ctx.Done()

	fmt.Fprintln(out, "Shutting down test server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printBanner(out io.Writer, url string, opts *options) {
	fmt.Fprintf(out, "Starting Companies House test server on port %d\n", opts.port)
	fmt.Fprintf(out, "URL: %s\n", url)
	fmt.Fprintf(out, "Presenter ID: %s\n", opts.config.PresenterID)
	fmt.Fprintf(out, "Authentication: %s\n", opts.config.Authentication)
	fmt.Fprintf(out, "Company Auth Code: %s\n", opts.config.CompanyAuthCode)
	fmt.Fprintf(out, "Fail Auth: %t\n", opts.config.FailAuth)
	fmt.Fprintf(out, "Response Delay: %s\n", opts.config.Delay)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
