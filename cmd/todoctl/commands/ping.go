package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// NewPingCmd creates the ping command
func NewPingCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is up",
		Long:  "Call the server's ping endpoint and report the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(serverURL + "/ping")
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()

			switch resp.StatusCode {
			case http.StatusOK:
				body, err := io.ReadAll(resp.Body)
				if err != nil {
					return fmt.Errorf("failed to read response: %w", err)
				}
				fmt.Printf("Server responded: %s\n", string(body))
				return nil
			case http.StatusServiceUnavailable:
				return fmt.Errorf("server is up but the PING_API feature is disabled")
			default:
				return fmt.Errorf("server returned status: %d", resp.StatusCode)
			}
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the running server")
	return cmd
}
