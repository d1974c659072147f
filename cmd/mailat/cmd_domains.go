package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// domainsCmd creates the domains command group.
func domainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Manage sending domains",
	}
	cmd.AddCommand(domainsListCmd())
	cmd.AddCommand(domainsAddCmd())
	cmd.AddCommand(domainsVerifyCmd())
	return cmd
}

func domainsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sending domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			domains, err := client.Domains.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range domains {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", d.ID, d.Status, d.Name)
			}
			return nil
		},
	}
}

func domainsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <domain>",
		Short: "Register a sending domain and print its DNS records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			domain, err := client.Domains.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", domain.ID)
			for _, rec := range domain.DNSRecords {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", rec.Type, rec.Name, rec.Value)
			}
			return nil
		},
	}
}

func domainsVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <domain-id>",
		Short: "Run a DNS verification pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Domains.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if result.Verified {
				fmt.Fprintln(cmd.OutOrStdout(), "verified")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "not verified; pending records:")
			for _, rec := range result.Records {
				if !rec.Verified {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.Type, rec.Name)
				}
			}
			return nil
		},
	}
}
