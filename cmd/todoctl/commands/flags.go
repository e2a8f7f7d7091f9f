package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hieudev/todo-api/internal/features"
)

// NewFlagsCmd creates the flags command with list and set subcommands
func NewFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Manage feature flags on a running server",
		Long:  "List or toggle feature flags through the server's feature flag API",
	}
	cmd.AddCommand(newFlagsListCmd())
	cmd.AddCommand(newFlagsSetCmd())
	return cmd
}

func newFlagsListCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all feature flags and their current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(serverURL + "/api/features")
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned status: %d", resp.StatusCode)
			}

			var flags map[string]bool
			if err := json.NewDecoder(resp.Body).Decode(&flags); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			names := make([]string, 0, len(flags))
			for name := range flags {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Println("Feature flags:")
			for _, name := range names {
				state := "disabled"
				if flags[name] {
					state = "enabled"
				}
				fmt.Printf("  %-20s %s\n", name, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the running server")
	return cmd
}

func newFlagsSetCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "set <name> <true|false>",
		Short: "Enable or disable a feature flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, err := features.ParseFlag(args[0])
			if err != nil {
				return err
			}
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("second argument must be true or false, got %q", args[1])
			}

			endpoint := fmt.Sprintf("%s/api/features/%s?enabled=%s",
				serverURL, url.PathEscape(string(flag)), strconv.FormatBool(enabled))
			req, err := http.NewRequest(http.MethodPut, endpoint, nil)
			if err != nil {
				return fmt.Errorf("failed to build request: %w", err)
			}

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()

			if resp.StatusCode != http.StatusNoContent {
				return fmt.Errorf("server returned status: %d", resp.StatusCode)
			}

			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Printf("Flag %s %s.\n", flag, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the running server")
	return cmd
}
