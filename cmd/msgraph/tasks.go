package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riddler/msgraph"
	"github.com/riddler/msgraph/planner"
)

var tasksPlan string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Planner task commands",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tasks of a plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if tasksPlan == "" {
			return fmt.Errorf("--plan is required")
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		tasks, _, err := planner.NewService(client).ListPlanTasks(cmd.Context(), tasksPlan, msgraph.DefaultListOptions())
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}

		for _, task := range tasks {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%3d%%\t%s\n", task.ID, task.PercentComplete, task.Title)
		}
		return nil
	},
}

func init() {
	tasksListCmd.Flags().StringVar(&tasksPlan, "plan", "", "plan ID")
	tasksCmd.AddCommand(tasksListCmd)
	rootCmd.AddCommand(tasksCmd)
}
