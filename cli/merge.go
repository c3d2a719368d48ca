package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compozy/scriptctx/engine/codec"
	"github.com/compozy/scriptctx/engine/merge"
	"github.com/compozy/scriptctx/engine/value"
	"github.com/compozy/scriptctx/pkg/config"
	"github.com/compozy/scriptctx/pkg/logger"
)

func MergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge FILE...",
		Short: "Normalize and merge JSON or YAML documents left to right",
		Long: "Each document is normalized with the configured key policy and merged into the\n" +
			"previous result. Objects merge recursively, arrays concatenate and later scalars win.\n" +
			"Use - to read a JSON document from stdin.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			dec, err := codec.NewDecoderFromConfig(config.FromContext(ctx))
			if err != nil {
				return err
			}
			docs := make([]value.Value, 0, len(args))
			for _, path := range args {
				v, err := decodeFile(dec, path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				log.Debug("Decoded document", "path", path, "kind", v.Kind().String())
				docs = append(docs, v)
			}
			data, err := merge.All(docs...).MarshalJSON()
			if err != nil {
				return err
			}
			return writeJSON(cmd, data)
		},
	}
}

func decodeFile(dec *codec.Decoder, path string, stdin io.Reader) (value.Value, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var v value.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v, err = dec.DecodeYAML(data)
	default:
		v, err = dec.DecodeJSON(data)
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return v, nil
}
