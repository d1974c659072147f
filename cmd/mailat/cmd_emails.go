package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mailat "github.com/mailat/mailat-go"
)

// emailsCmd creates the emails command group.
func emailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emails",
		Short: "Inspect sent emails",
	}
	cmd.AddCommand(emailsListCmd())
	cmd.AddCommand(emailsGetCmd())
	cmd.AddCommand(emailsEventsCmd())
	cmd.AddCommand(emailsCancelCmd())
	return cmd
}

func emailsListCmd() *cobra.Command {
	var (
		status string
		tag    string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent emails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			list, err := client.Emails.List(cmd.Context(), mailat.ListEmailsParams{
				Limit:  limit,
				Status: mailat.EmailStatus(status),
				Tag:    tag,
			})
			if err != nil {
				return err
			}

			for _, e := range list.Emails {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.ID, e.Status, e.Subject)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by delivery status")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")

	return cmd
}

func emailsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <email-id>",
		Short: "Show one email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			email, err := client.Emails.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", email.ID)
			fmt.Fprintf(out, "Status:  %s\n", email.Status)
			fmt.Fprintf(out, "From:    %s\n", email.From)
			for _, to := range email.To {
				fmt.Fprintf(out, "To:      %s\n", to)
			}
			fmt.Fprintf(out, "Subject: %s\n", email.Subject)
			if email.DeliveredAt != nil {
				fmt.Fprintf(out, "Delivered: %s\n", email.DeliveredAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func emailsEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <email-id>",
		Short: "Show the delivery event history of an email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			events, err := client.Emails.GetEvents(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ev.Timestamp.Format("2006-01-02 15:04:05"), ev.EventType)
			}
			return nil
		},
	}
}

func emailsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <email-id>",
		Short: "Cancel a scheduled email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			email, err := client.Emails.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", email.ID, email.Status)
			return nil
		},
	}
}
