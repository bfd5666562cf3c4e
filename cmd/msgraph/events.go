package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/riddler/msgraph"
	"github.com/riddler/msgraph/calendars"
)

var (
	eventsUser string
	eventsDays int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Calendar event commands",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming calendar events for a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if eventsUser == "" {
			return fmt.Errorf("--user is required")
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		start := time.Now()
		end := start.AddDate(0, 0, eventsDays)

		opts := msgraph.DefaultListOptions()
		opts.OrderBy = "start/dateTime"

		events, _, err := calendars.NewService(client, eventsUser).CalendarView(cmd.Context(), start, end, opts)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		for _, event := range events {
			when := ""
			if event.Start != nil {
				when = event.Start.DateTime
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", event.ID, when, event.Subject)
		}
		return nil
	},
}

func init() {
	eventsListCmd.Flags().StringVar(&eventsUser, "user", "", "user ID or principal name")
	eventsListCmd.Flags().IntVar(&eventsDays, "days", 7, "window size in days")
	eventsCmd.AddCommand(eventsListCmd)
	rootCmd.AddCommand(eventsCmd)
}
