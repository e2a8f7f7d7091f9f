package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hieudev/todo-api/cmd/todoctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "todoctl",
		Short: "Operations tool for the Todo API",
		Long:  "CLI tool for managing feature flags, checking liveness and seeding data",
	}

	rootCmd.AddCommand(commands.NewFlagsCmd())
	rootCmd.AddCommand(commands.NewPingCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
