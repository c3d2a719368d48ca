package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compozy/scriptctx/engine/codec"
	"github.com/compozy/scriptctx/engine/condition"
	"github.com/compozy/scriptctx/engine/script"
	"github.com/compozy/scriptctx/pkg/config"
	"github.com/compozy/scriptctx/pkg/logger"
)

func EvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval EXPRESSION",
		Short: "Evaluate a transition condition against a script context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			dec, err := codec.NewDecoderFromConfig(cfg)
			if err != nil {
				return err
			}
			sc, err := evalContext(cmd, dec, logger.FromContext(ctx))
			if err != nil {
				return err
			}
			eval, err := condition.NewEvaluatorFromConfig(cfg)
			if err != nil {
				return err
			}
			ok, err := eval.Evaluate(ctx, args[0], sc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
			return err
		},
	}
	cmd.Flags().StringSlice("body", nil, "JSON or YAML file merged into the body, repeatable")
	cmd.Flags().StringToString("header", nil, "Request header as name=value, repeatable")
	cmd.Flags().StringToString("route", nil, "Route value as name=value, repeatable")
	return cmd
}

func evalContext(cmd *cobra.Command, dec *codec.Decoder, log logger.Logger) (*script.Context, error) {
	bodies, err := cmd.Flags().GetStringSlice("body")
	if err != nil {
		return nil, err
	}
	headers, err := cmd.Flags().GetStringToString("header")
	if err != nil {
		return nil, err
	}
	routes, err := cmd.Flags().GetStringToString("route")
	if err != nil {
		return nil, err
	}
	b := script.NewBuilder().
		WithDecoder(dec).
		WithLogger(log).
		WithHeaders(headers).
		WithRouteValues(routes)
	for _, path := range bodies {
		v, err := decodeFile(dec, strings.TrimSpace(path), cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		b = b.WithBody(v)
	}
	return b.BuildPartial()
}
