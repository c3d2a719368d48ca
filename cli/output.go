package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

const (
	OutputFormatJSON   = "json"
	OutputFormatPretty = "pretty"
)

// outputFormat honors --output and otherwise picks pretty output when stdout
// is a terminal.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	switch format {
	case OutputFormatJSON, OutputFormatPretty:
		return format, nil
	case "":
		if isTerminal(cmd.OutOrStdout()) {
			return OutputFormatPretty, nil
		}
		return OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(cmd *cobra.Command, data []byte) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == OutputFormatPretty {
		data = pretty.Pretty(data)
		if isTerminal(out) {
			data = pretty.Color(data, nil)
		}
	} else {
		data = append(data, '\n')
	}
	_, err = out.Write(data)
	return err
}
