// Command mailat is a small CLI over the mailat.co API, useful for smoke
// testing an account and for operating webhooks and domains from scripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	mailat "github.com/mailat/mailat-go"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitSetup   = 3
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:     "mailat",
		Short:   "Send email and manage webhooks and domains on mailat.co",
		Version: mailat.Version,
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(emailsCmd())
	rootCmd.AddCommand(webhooksCmd())
	rootCmd.AddCommand(domainsCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, mailat.ErrMissingAPIKey) {
		return ExitSetup
	}
	var validationErr *mailat.ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsage
	}
	return ExitGeneral
}

// newClient builds an SDK client from the environment. MAILAT_API_KEY is
// required; MAILAT_BASE_URL overrides the production endpoint.
func newClient() (*mailat.Client, error) {
	apiKey := os.Getenv("MAILAT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("MAILAT_API_KEY is not set: %w", mailat.ErrMissingAPIKey)
	}

	var opts []mailat.Option
	if baseURL := os.Getenv("MAILAT_BASE_URL"); baseURL != "" {
		opts = append(opts, mailat.WithBaseURL(baseURL))
	}
	return mailat.New(apiKey, opts...)
}
