// Command server runs the reservist localisation API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//	@title			Localisation API
//	@version		1.0
//	@description	Suivi de la localisation des réservistes par campagne de rappel

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// Version is overridden at build time with -ldflags
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "localisation",
		Short:         "Reservist localisation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (TOML); searches ., ./config and /etc/localisation when empty")

	cmd.AddCommand(serveCmd(&configPath), seedCmd(&configPath), versionCmd())
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Migrate the catalog database and load reference data and users",
		Long: `Creates the catalog tables and upserts reservists, brigades, campaigns
and users from a YAML fixture. The built-in fixture is used when --file and
catalog.seed_file are both empty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture to load")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "localisation %s\n", Version)
		},
	}
}
