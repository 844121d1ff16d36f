package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/ideaforge/cmd/cli/idea"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/spf13/cobra"
	"io/fs"
	"os"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(idea.Group)
	rootCmd.AddCommand(idea.Generate)
	rootCmd.AddCommand(idea.Suggest)
}

var rootCmd = &cobra.Command{
	Use:          "ideaforge-cli",
	Long:         `Command line utilities for Ideaforge https://github.com/myrjola/ideaforge`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
