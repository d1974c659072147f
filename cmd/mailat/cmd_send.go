package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mailat "github.com/mailat/mailat-go"
)

// sendCmd creates the send command.
func sendCmd() *cobra.Command {
	var (
		from       string
		subject    string
		html       string
		text       string
		templateID string
		tags       []string
	)

	cmd := &cobra.Command{
		Use:   "send <recipient>...",
		Short: "Send a transactional email",
		Example: `  mailat send user@example.com -s "Hello" --text "Hi there"
  mailat send a@example.com b@example.com -s "Release" --html "<h1>v2 is out</h1>"
  mailat send user@example.com --template tpl_welcome`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, args, from, subject, html, text, templateID, tags)
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Sender address (default: account default sender)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject line")
	cmd.Flags().StringVar(&html, "html", "", "HTML body")
	cmd.Flags().StringVar(&text, "text", "", "Plain text body")
	cmd.Flags().StringVar(&templateID, "template", "", "Stored template ID (replaces --html/--text)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")

	return cmd
}

func runSend(cmd *cobra.Command, recipients []string, from, subject, html, text, templateID string, tags []string) error {
	if html == "" && text == "" && templateID == "" {
		return &mailat.ValidationError{Message: "one of --html, --text or --template is required"}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	params := &mailat.SendEmailParams{
		To:         mailat.To(recipients...),
		Subject:    subject,
		HTML:       html,
		Text:       text,
		TemplateID: templateID,
		Tags:       tags,
	}
	if from != "" {
		params.From = mailat.Addr(from)
	}

	email, err := client.Emails.Send(cmd.Context(), params)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", email.ID, email.Status)
	return nil
}
