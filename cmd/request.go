package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-clearkey/pkg/app"
	"github.com/deploymenttheory/go-clearkey/pkg/app/resolve"
)

var requestFormat string

var requestCmd = &cobra.Command{
	Use:   "request [init-data-file]",
	Short: "Print the license request for init data",
	Long: `Build the JSON license request naming every ClearKey key ID
found in the init data.

Examples:
  clearkey request init.bin
  clearkey request init.mp4 --format mp4 > request.json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestCmd.Flags().StringVarP(&requestFormat, "format", "f", "auto", "init data format (auto, raw, hex, base64, mp4)")
}

func runRequest(cmd *cobra.Command, path string) error {
	ctx := newAppContext()

	response, err := resolve.Handle(ctx, &resolve.Request{
		InitDataPath:   path,
		InitDataFormat: resolve.InitDataFormat(requestFormat),
	})
	if err != nil {
		return err
	}
	if response.LicenseRequest == "" {
		return app.NewError(app.ErrCodeParseFailed, "init data carries no ClearKey key IDs", nil)
	}

	for _, warning := range response.Warnings {
		ctx.Error(warning)
	}
	fmt.Fprintln(cmd.OutOrStdout(), response.LicenseRequest)
	return nil
}
