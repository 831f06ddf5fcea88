package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	cfg    *Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stackgen",
	Short: "Compile service descriptions into Swarm compose manifests",
	Long: `stackgen deterministically compiles a declarative service description
(array or legacy object form) into a complete Docker-Swarm compose
manifest with networking, secrets, health checks, resource limits,
reverse-proxy routing and placement constraints wired together.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		cfg = loaded
		logger = SetupLogger(cfg)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stackgen %s (built %s)\n", Version, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stackgen: %v\n", err)
		os.Exit(1)
	}
}
