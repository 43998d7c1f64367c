package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-clearkey/pkg/app/decrypt"
)

var (
	decryptOut      string
	decryptKey      string
	decryptIV       string
	decryptResponse string
	decryptKeyID    string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt [encrypted-file]",
	Short: "Decrypt AES-128 counter mode samples",
	Long: `Decrypt a whole number of 16 byte blocks with AES-128 in counter
mode. The key is given directly in hex, or looked up by key ID in a
saved license response.

Examples:
  clearkey decrypt sample.enc --out sample.bin \
    --key 00112233445566778899aabbccddeeff --iv 000102030405060708090a0b0c0d0e0f

  clearkey decrypt sample.enc --out sample.bin --response license.json \
    --kid 0123456789abcdef0123456789abcdef --iv 000102030405060708090a0b0c0d0e0f`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecrypt(args[0])
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)

	decryptCmd.Flags().StringVar(&decryptOut, "out", "", "output file")
	decryptCmd.Flags().StringVar(&decryptIV, "iv", "", "initial counter block (32 hex digits)")

	decryptCmd.Flags().StringVar(&decryptKey, "key", "", "content key (32 hex digits)")
	decryptCmd.Flags().StringVar(&decryptResponse, "response", "", "saved license response file")
	decryptCmd.Flags().StringVar(&decryptKeyID, "kid", "", "key ID to use from the license response (32 hex digits)")

	_ = decryptCmd.MarkFlagRequired("out")
	_ = decryptCmd.MarkFlagRequired("iv")
	decryptCmd.MarkFlagsMutuallyExclusive("key", "response")
	decryptCmd.MarkFlagsRequiredTogether("response", "kid")
}

func runDecrypt(path string) error {
	ctx := newAppContext()

	request := &decrypt.Request{
		InputPath:    path,
		OutputPath:   decryptOut,
		KeyHex:       decryptKey,
		ResponsePath: decryptResponse,
		KeyIDHex:     decryptKeyID,
		IVHex:        decryptIV,
	}
	if cfg != nil {
		request.KeyTTL = cfg.KeyTTL
	}

	response, err := decrypt.Handle(ctx, request)
	if err != nil {
		return err
	}

	if ctx.Quiet {
		return nil
	}
	return decrypt.FormatOutput(os.Stdout, response, ctx.OutputFormat)
}
