package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-clearkey/pkg/app/resolve"
)

var (
	// Init data input
	resolveFormat string

	// License source
	resolveLicenseURL string
	resolveResponse   string
	resolveTimeout    time.Duration

	// Output
	resolveShowKeys bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [init-data-file]",
	Short: "Resolve content keys for init data",
	Long: `Run the full pipeline: read the key IDs from init data, build the
license request, fetch the license from a server (or read a saved
response) and list the keys it grants.

The license server defaults to license_url from the config file or the
CLEARKEY_LICENSE_URL environment variable.

Examples:
  # Ask a license server
  clearkey resolve init.mp4 --license-url https://license.example.com/clearkey

  # Match a saved response against the init data
  clearkey resolve init.bin --response license.json --show-keys`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(args[0])
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "auto", "init data format (auto, raw, hex, base64, mp4)")

	resolveCmd.Flags().StringVar(&resolveLicenseURL, "license-url", "", "license server URL")
	resolveCmd.Flags().StringVar(&resolveResponse, "response", "", "saved license response file")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 0, "license request timeout (default from config)")

	resolveCmd.Flags().BoolVar(&resolveShowKeys, "show-keys", false, "print content keys instead of masking them")

	resolveCmd.MarkFlagsMutuallyExclusive("license-url", "response")
}

func runResolve(path string) error {
	ctx := newAppContext()

	request := &resolve.Request{
		InitDataPath:   path,
		InitDataFormat: resolve.InitDataFormat(resolveFormat),
		ResponsePath:   resolveResponse,
		LicenseURL:     resolveLicenseURL,
		Timeout:        resolveTimeout,
		ShowKeys:       resolveShowKeys,
	}
	if cfg != nil {
		if request.LicenseURL == "" && request.ResponsePath == "" {
			request.LicenseURL = cfg.LicenseURL
		}
		if request.Timeout == 0 {
			request.Timeout = cfg.RequestTimeout
		}
		request.UserAgent = cfg.UserAgent
	}

	response, err := resolve.Handle(ctx, request)
	if err != nil {
		return err
	}

	return resolve.FormatOutput(os.Stdout, response, ctx.OutputFormat)
}
