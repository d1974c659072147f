package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mailat "github.com/mailat/mailat-go"
)

// webhooksCmd creates the webhooks command group.
func webhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage webhook endpoints",
	}
	cmd.AddCommand(webhooksListCmd())
	cmd.AddCommand(webhooksCreateCmd())
	cmd.AddCommand(webhooksRotateCmd())
	cmd.AddCommand(webhooksTestCmd())
	cmd.AddCommand(webhooksVerifyCmd())
	return cmd
}

func webhooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			webhooks, err := client.Webhooks.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, wh := range webhooks {
				state := "disabled"
				if wh.Active {
					state = "active"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", wh.ID, state, wh.Name, wh.URL)
			}
			return nil
		},
	}
}

func webhooksCreateCmd() *cobra.Command {
	var events []string

	cmd := &cobra.Command{
		Use:   "create <name> <url>",
		Short: "Register a webhook endpoint",
		Example: `  mailat webhooks create deliveries https://example.com/hook \
    --event email.delivered --event email.bounced`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			types := make([]mailat.WebhookEventType, len(events))
			for i, e := range events {
				types[i] = mailat.WebhookEventType(e)
			}

			webhook, err := client.Webhooks.Create(cmd.Context(), args[0], args[1], types...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", webhook.ID)
			// The secret is shown once; it cannot be retrieved later.
			fmt.Fprintf(cmd.OutOrStdout(), "secret: %s\n", webhook.Secret)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&events, "event", nil, "Event type to subscribe to (repeatable)")

	return cmd
}

func webhooksRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-secret <webhook-id>",
		Short: "Rotate the signing secret of a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			secret, err := client.Webhooks.RotateSecret(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
}

func webhooksTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <webhook-id>",
		Short: "Ask the server to deliver a test event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Webhooks.Test(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if result.Success {
				fmt.Fprintf(cmd.OutOrStdout(), "ok\t%d\t%dms\n", result.StatusCode, result.ResponseTime)
				return nil
			}
			return fmt.Errorf("test delivery failed: %s (status %d)", result.Error, result.StatusCode)
		},
	}
}

// webhooksVerifyCmd checks a captured webhook delivery offline: payload on
// stdin, signature header as an argument. Useful when debugging a receiver.
func webhooksVerifyCmd() *cobra.Command {
	var (
		secret string
		legacy bool
	)

	cmd := &cobra.Command{
		Use:   "verify <signature-header>",
		Short: "Verify a webhook signature against a payload read from stdin",
		Example: `  cat payload.json | mailat webhooks verify "t=1717243200,v1=5f8b..." --secret whsec_abc
  cat payload.json | mailat webhooks verify "sha256=5f8b..." --secret whsec_abc --legacy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("MAILAT_WEBHOOK_SECRET")
			}
			if secret == "" {
				return &mailat.ValidationError{Message: "--secret or MAILAT_WEBHOOK_SECRET is required"}
			}

			payload, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}

			var opts []mailat.VerifyOption
			if legacy {
				opts = append(opts, mailat.WithSignatureScheme(mailat.SchemeHexDigest))
			}
			if err := mailat.VerifyWebhookSignature(payload, args[0], secret, opts...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Webhook signing secret (default: MAILAT_WEBHOOK_SECRET)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Verify a bare sha256=<hex> signature instead")

	return cmd
}
