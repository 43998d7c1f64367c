package decrypt

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes the decryption result in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(response)
	case "table", "":
		fmt.Fprintf(w, "Decrypted %d bytes (%d blocks) into %s\n", response.Bytes, response.Blocks, response.OutputPath)
		if response.KeyID != "" {
			fmt.Fprintf(w, "Key ID:  %s\n", response.KeyID)
		}
		fmt.Fprintf(w, "Next IV: %s\n", response.NextIV)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
