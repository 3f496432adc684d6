// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arc-language/portix"
	"github.com/arc-language/portix/pkg/core"
	"github.com/arc-language/portix/pkg/logging"
)

var (
	cfgFile     string
	root        string
	cacheMethod string
	debug       bool
	config      *core.Config
	logger      *log.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portix",
	Short: "Gentoo package index",
	Long: `portix - Gentoo package index

Reads the portage tree and overlays through their metadata caches,
applies the cascading profile and accepted keywords, and answers
search and upgrade queries.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command; commands stop when ctx ends.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/portix/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&root, "root", "", "system root prepended to /etc and /var paths")
	rootCmd.PersistentFlags().StringVar(&cacheMethod, "cache-method", "", "cache method of the main repository (sqlite, metadata-md5, metadata-flat, badger, ebuild)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(upgradesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if root != "" {
		config.Root = root
	}
	if cacheMethod != "" {
		config.CacheMethod = cacheMethod
	}
	if debug {
		config.Debug = true
		config.LogLevel = "debug"
	}
	logger = logging.New(config.LogLevel, os.Stderr)
}

// openIndex loads the index for a command.
func openIndex(ctx context.Context) (*portix.Index, error) {
	ix, err := portix.Open(ctx, config, portix.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	return ix, nil
}
