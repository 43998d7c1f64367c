package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-clearkey/internal/config"
	"github.com/deploymenttheory/go-clearkey/pkg/app"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "clearkey",
	Short: "ClearKey init data, license and sample decryption tool",
	Long: `clearkey resolves ClearKey content keys for protected media.

It reads key IDs from PSSH init data (raw boxes, hex, base64 or an MP4
init segment), builds the license request, talks to a license server or
reads a saved license response, and decrypts AES-128 counter mode samples.

Commands:
  pssh        List the ClearKey key IDs carried in init data
  request     Print the license request for init data
  keys        List the keys in a license response
  resolve     Run the full init data to keys pipeline
  decrypt     Decrypt samples with a content key`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default clearkey-config.yaml in the search path)")
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}

// GetQuiet returns the quiet flag value
func GetQuiet() bool {
	return quiet
}

// GetOutputFormat returns the output format
func GetOutputFormat() string {
	return outputFormat
}

// newAppContext builds the application context from the global flags and config
func newAppContext() *app.Context {
	ctx := app.NewContext()
	ctx.OutputFormat = GetOutputFormat()
	ctx.Verbose = GetVerbose()
	ctx.Quiet = GetQuiet()
	if cfg != nil {
		ctx.DefaultTimeout = cfg.RequestTimeout
	}
	return ctx
}
