// Package cmd contains the command line interface of the service.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/pdfvault/pkg/app"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "pdfvault",
		Short: "Ephemeral PDF processing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApp(configPath).Run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose diagnostics")

	rootCmd.AddCommand(serveCmd)
	registerConfigsCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
