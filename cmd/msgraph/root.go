package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/riddler/msgraph"
	"github.com/riddler/msgraph/msauth"
)

var (
	credentialsPath string
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:     "msgraph",
	Short:   "Query Microsoft Graph from the command line",
	Long:    "A thin CLI over the msgraph library: lists groups, calendar events and planner tasks using application credentials.",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&credentialsPath, "credentials", "c", "",
		"path to a TOML credentials file (default $MSGRAPH_CREDENTIALS)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging of requests")
}

// newClient builds an authenticated client from the credentials file.
func newClient(ctx context.Context) (*msgraph.Client, error) {
	path := credentialsPath
	if path == "" {
		path = os.Getenv("MSGRAPH_CREDENTIALS")
	}
	if path == "" {
		return nil, fmt.Errorf("no credentials file: pass --credentials or set MSGRAPH_CREDENTIALS")
	}

	creds, err := msauth.LoadCredentials(path)
	if err != nil {
		return nil, err
	}

	opts := []msgraph.Option{}
	if verbose {
		opts = append(opts, msgraph.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	provider := msauth.ClientCredentials(ctx, creds.TenantID, creds.ClientID, creds.ClientSecret)
	return msgraph.NewClient(provider, opts...), nil
}
