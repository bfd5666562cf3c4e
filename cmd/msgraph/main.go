// Command msgraph is a small demonstration CLI over the library: list
// groups, calendar events and planner tasks for a tenant.
package main

import "os"

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
