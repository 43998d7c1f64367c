package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-clearkey/pkg/app/resolve"
)

var psshFormat string

var psshCmd = &cobra.Command{
	Use:   "pssh [init-data-file]",
	Short: "List the ClearKey key IDs carried in init data",
	Long: `Walk the PSSH boxes in init data and list the key IDs of the
version 1 boxes carrying the ClearKey system ID.

Examples:
  # Raw concatenated pssh boxes
  clearkey pssh init.bin

  # Base64 init data copied from a manifest
  clearkey pssh pssh.txt --format base64

  # The pssh boxes of an MP4 init segment
  clearkey pssh init.mp4 -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPssh(args[0])
	},
}

func init() {
	rootCmd.AddCommand(psshCmd)

	psshCmd.Flags().StringVarP(&psshFormat, "format", "f", "auto", "init data format (auto, raw, hex, base64, mp4)")
}

func runPssh(path string) error {
	ctx := newAppContext()

	response, err := resolve.Handle(ctx, &resolve.Request{
		InitDataPath:   path,
		InitDataFormat: resolve.InitDataFormat(psshFormat),
	})
	if err != nil {
		return err
	}

	// The license request is shown by its own command
	response.LicenseRequest = ""
	return resolve.FormatOutput(os.Stdout, response, ctx.OutputFormat)
}
