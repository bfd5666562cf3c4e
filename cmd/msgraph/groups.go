package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riddler/msgraph"
	"github.com/riddler/msgraph/groups"
)

var groupsFilter string

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Directory group commands",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List directory groups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		opts := msgraph.DefaultListOptions()
		opts.Filter = groupsFilter
		opts.Select = []string{"id", "displayName", "mail", "securityEnabled"}

		list, _, err := groups.NewService(client).List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}

		for _, group := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", group.ID, group.DisplayName, group.Mail)
		}
		return nil
	},
}

func init() {
	groupsListCmd.Flags().StringVar(&groupsFilter, "filter", "", "OData $filter expression")
	groupsCmd.AddCommand(groupsListCmd)
	rootCmd.AddCommand(groupsCmd)
}
