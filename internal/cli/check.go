package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sbom-age/internal/app"
)

type checkOptions struct {
	SBOM         string
	MaxAgeDays   int
	CheckUpdates bool
	CacheFile    string
	IgnoreFile   string
	Manifest     string
	Workers      int
	ShowIgnored  bool
	HTTPTimeout  int
	HTTPRetries  int
	HTTPDelayMs  int
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Analyze an SBOM for components older than a threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SBOM, "sbom", "", "CycloneDX JSON file path")
	cmd.Flags().IntVar(&opts.MaxAgeDays, "age", 90, "Maximum allowed component age in days")
	cmd.Flags().BoolVar(&opts.CheckUpdates, "check-updates", false, "Discover newer versions for aged components")
	cmd.Flags().StringVar(&opts.CacheFile, "cache-file", defaultCachePath(), "Resolution cache file path")
	cmd.Flags().StringVar(&opts.IgnoreFile, "ignore-file", "", "YAML ignore list path")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest file restricting the analysis (package.json or requirements.txt)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Concurrent resolver workers")
	cmd.Flags().BoolVar(&opts.ShowIgnored, "show-ignored", false, "Print ignored components")
	cmd.Flags().IntVar(&opts.HTTPTimeout, "http-timeout", 10, "Per-request timeout in seconds")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "Retry attempts for transient registry failures")
	cmd.Flags().IntVar(&opts.HTTPDelayMs, "http-retry-delay", 200, "Base retry delay in milliseconds")

	_ = viper.BindPFlag("sbom", cmd.Flags().Lookup("sbom"))
	_ = viper.BindPFlag("age", cmd.Flags().Lookup("age"))
	_ = viper.BindPFlag("check_updates", cmd.Flags().Lookup("check-updates"))
	_ = viper.BindPFlag("cache_file", cmd.Flags().Lookup("cache-file"))
	_ = viper.BindPFlag("ignore_file", cmd.Flags().Lookup("ignore-file"))
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("show_ignored", cmd.Flags().Lookup("show-ignored"))
	_ = viper.BindPFlag("http_timeout", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay", cmd.Flags().Lookup("http-retry-delay"))

	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	service := app.NewService()
	result, err := service.Check(ctx, app.CheckRequest{
		SBOMPath:         resolveString(cmd, opts.SBOM, "sbom", "sbom"),
		MaxAgeDays:       resolveInt(cmd, opts.MaxAgeDays, "age", "age"),
		CheckUpdates:     resolveBool(cmd, opts.CheckUpdates, "check_updates", "check-updates"),
		CacheFile:        resolveString(cmd, opts.CacheFile, "cache_file", "cache-file"),
		IgnoreFile:       resolveString(cmd, opts.IgnoreFile, "ignore_file", "ignore-file"),
		ManifestPath:     resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		Workers:          resolveInt(cmd, opts.Workers, "workers", "workers"),
		ShowIgnored:      resolveBool(cmd, opts.ShowIgnored, "show_ignored", "show-ignored"),
		HTTPTimeoutSec:   resolveInt(cmd, opts.HTTPTimeout, "http_timeout", "http-timeout"),
		HTTPRetries:      resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		HTTPRetryDelayMs: resolveInt(cmd, opts.HTTPDelayMs, "http_retry_delay", "http-retry-delay"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("checked: %d components, %d alarms, %d updates available\n", result.Components, result.Alarms, result.Updates)
	return nil
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sbom-age-cache.json"
	}
	return filepath.Join(home, ".sbom-age-cache.json")
}
