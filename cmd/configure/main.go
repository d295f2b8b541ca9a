package main

import (
	"fmt"
	"os"

	"github.com/iyad07/micro-habit-coach-sub001/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "habit-coach-configure",
		Short: "Configuration tool for the Habit Coach API",
		Long:  "CLI tool for managing rate limits and inspecting the suggestion catalog",
	}

	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewCatalogCmd())
	rootCmd.AddCommand(commands.NewSuggestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
