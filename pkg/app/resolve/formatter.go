package resolve

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes the response to w in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table", "":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as tables
func formatTable(out io.Writer, response *Response) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if len(response.KeyIDs) > 0 {
		fmt.Fprintf(w, "KEY ID\tHEX\tBASE64\n")
		fmt.Fprintf(w, "------\t---\t------\n")
		for _, id := range response.KeyIDs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", id.UUID, id.Hex, id.Base64)
		}
		fmt.Fprintln(w)
	}

	if response.LicenseRequest != "" {
		fmt.Fprintf(w, "License request: %s\n\n", response.LicenseRequest)
	}

	if len(response.Keys) > 0 {
		fmt.Fprintf(w, "KID\tKEY\tREQUESTED\n")
		fmt.Fprintf(w, "---\t---\t---------\n")
		for _, key := range response.Keys {
			fmt.Fprintf(w, "%s\t%s\t%t\n", key.KeyID, key.Key, key.Requested)
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	for _, warning := range response.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}
	fmt.Fprintln(out, FormatSummary(response))
	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a one line summary
func FormatSummary(response *Response) string {
	summary := fmt.Sprintf("%d key ID%s", len(response.KeyIDs), plural(len(response.KeyIDs)))
	if response.LicenseSource != "" {
		summary += fmt.Sprintf(", %d key%s from %s", len(response.Keys), plural(len(response.Keys)), response.LicenseSource)
	}
	return summary + fmt.Sprintf(" in %v", response.Elapsed)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
