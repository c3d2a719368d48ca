package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compozy/scriptctx/pkg/config"
	"github.com/compozy/scriptctx/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scriptctx",
		Short:         "Merge payloads, evaluate conditions and preview timers for workflow scripts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	root.PersistentFlags().String("env-file", ".env", "Path to an environment file loaded before the configuration")
	root.PersistentFlags().String("key-policy", "", "Key naming policy: camel, lower_camel or none")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().String("output", "", "Output format: json or pretty (defaults to pretty on a terminal)")

	root.AddCommand(
		MergeCmd(),
		EvalCmd(),
		NextCmd(),
	)
	return root
}

// SetupGlobalConfig loads the configuration for cmd and injects it, together
// with a logger writing to stderr, into the command context. Flags override
// the config file.
func SetupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	sources, err := flagSources(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.NewService().Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logCfg := cfg.Log.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	log := logger.NewLogger(logCfg)
	ctx = config.ContextWithConfig(ctx, cfg)
	ctx = logger.ContextWithLogger(ctx, log)
	cmd.SetContext(ctx)
	return nil
}

func flagSources(cmd *cobra.Command) ([]config.Source, error) {
	var sources []config.Source
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		sources = append(sources, config.NewYAMLProvider(path))
	}
	overrides := map[string]any{}
	if cmd.Flags().Changed("key-policy") {
		policy, err := cmd.Flags().GetString("key-policy")
		if err != nil {
			return nil, err
		}
		overrides["normalization"] = map[string]any{"key_policy": policy}
	}
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		overrides["log"] = map[string]any{"level": "debug"}
	}
	if len(overrides) > 0 {
		sources = append(sources, config.NewMapProvider(overrides))
	}
	return sources, nil
}
