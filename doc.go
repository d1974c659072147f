// Package mailat provides a Go client SDK for mailat.co,
// a transactional and marketing email platform.
//
// The SDK covers sending transactional emails, templates, webhooks with
// HMAC-SHA256 signature verification, contacts, campaigns, and sending
// domains. Transient failures (network errors and HTTP 429) are retried
// with exponential backoff.
//
// Basic usage:
//
//	client, err := mailat.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Send an email
//	email, err := client.Emails.Send(ctx, &mailat.SendEmailParams{
//	    From:    mailat.NamedAddr("hello@example.com", "Example"),
//	    To:      mailat.To("user@example.com"),
//	    Subject: "Welcome",
//	    HTML:    "<h1>Hello</h1>",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Status:", email.Status)
//
// Webhook handlers verify inbound signatures before trusting the payload:
//
//	event, err := mailat.ParseWebhookPayload(body, r.Header.Get("X-Mailat-Signature"), secret)
//	if err != nil {
//	    http.Error(w, "invalid signature", http.StatusUnauthorized)
//	    return
//	}
package mailat
