package main

import (
	"fmt"
	"io"
	"os"

	"github.com/artpar/stackgen/internal/core/compiler"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a compose manifest from a service description",
	Long: `Generate compiles a JSON service description into a docker-compose
manifest for Swarm deployment.

Examples:
  # Compile for production
  stackgen generate -f services.json -o docker-compose.yml --env prod

  # Compile from stdin to stdout
  cat services.json | stackgen generate -f - -o -`,
	RunE: runGenerate,
}

func init() {
	addCompileFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", "docker-compose.yml", "Output file (- for stdout)")
	rootCmd.AddCommand(generateCmd)
}

// addCompileFlags registers the flags shared by generate and validate.
func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "JSON service description (- for stdin, required)")
	cmd.Flags().String("env", "", "Environment tier (dev, staging, prod)")
	cmd.Flags().String("fqdn", "", "Fully qualified domain name")
	cmd.Flags().String("deployment-strategy", "", "Deployment strategy (rolling, blue-green, canary)")
	cmd.Flags().Bool("health-checks", false, "Enable health checks")
	cmd.Flags().Bool("resource-limits", false, "Enable resource limits")
	cmd.Flags().Bool("volume-persistence", false, "Enable default persistent volumes")
	cmd.Flags().Bool("enable-retry", false, "Enable Traefik retry middleware")
	cmd.Flags().Bool("enable-rate-limit", false, "Enable Traefik rate limiting")
	cmd.Flags().Bool("enable-monitoring", false, "Add Prometheus scraping labels")
	cmd.Flags().Bool("enable-logging", false, "Enable logging configuration")
	cmd.Flags().Bool("enable-network-separation", false, "Enable network separation")
	cmd.Flags().Bool("use-secrets", false, "Convert sensitive variables to Docker secrets")
	_ = cmd.MarkFlagRequired("file")
}

// compileOptions translates the command line into compiler options.
// Boolean flags only override the input when explicitly set, so the
// input's own globals stay authoritative by default.
func compileOptions(cmd *cobra.Command) compiler.Options {
	opts := compiler.Options{}
	opts.Tier, _ = cmd.Flags().GetString("env")
	opts.FQDN, _ = cmd.Flags().GetString("fqdn")
	opts.Strategy, _ = cmd.Flags().GetString("deployment-strategy")
	if opts.FQDN == "" {
		opts.FQDN = cfg.Defaults.FQDN
	}
	if len(cfg.Secrets.Patterns) > 0 {
		opts.SecretPatterns = cfg.Secrets.Patterns
	}

	boolFlag := func(name string, dst **bool) {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetBool(name)
			*dst = &v
		}
	}
	boolFlag("health-checks", &opts.HealthChecks)
	boolFlag("resource-limits", &opts.ResourceLimits)
	boolFlag("volume-persistence", &opts.VolumePersistence)
	boolFlag("enable-retry", &opts.Retry)
	boolFlag("enable-rate-limit", &opts.RateLimit)
	boolFlag("enable-monitoring", &opts.Monitoring)
	boolFlag("enable-logging", &opts.Logging)
	boolFlag("enable-network-separation", &opts.NetworkSeparation)
	boolFlag("use-secrets", &opts.UseSecrets)
	return opts
}

// readInput reads the service description from a file or stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("file")
	outputPath, _ := cmd.Flags().GetString("output")

	raw, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	result, err := compiler.Compile(raw, compileOptions(cmd))
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning.Message, "code", warning.Code)
	}

	if outputPath == "-" {
		if _, err := os.Stdout.Write(result.Rendered); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(outputPath, result.Rendered, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
	}

	logger.Info("generated manifest",
		"output", outputPath,
		"services", result.Document.Services.Len(),
		"secrets", len(result.Document.Secrets),
		"warnings", len(result.Warnings),
	)
	if len(result.Document.Secrets) > 0 {
		logger.Info("remember to create the external secrets before deploying")
	}
	return nil
}
