package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-clearkey/pkg/app/resolve"
)

var keysShow bool

var keysCmd = &cobra.Command{
	Use:   "keys [license-response-file]",
	Short: "List the keys in a license response",
	Long: `Parse a JWK set license response and list the usable
kid/key pairs. Keys are masked unless --show-keys is given.

Examples:
  clearkey keys license.json
  clearkey keys license.json --show-keys -o yaml`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeys(args[0])
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().BoolVar(&keysShow, "show-keys", false, "print content keys instead of masking them")
}

func runKeys(path string) error {
	ctx := newAppContext()

	response, err := resolve.Handle(ctx, &resolve.Request{
		ResponsePath: path,
		ShowKeys:     keysShow,
	})
	if err != nil {
		return err
	}

	return resolve.FormatOutput(os.Stdout, response, ctx.OutputFormat)
}
