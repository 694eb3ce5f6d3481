// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pinlogin/internal/config"
	"github.com/xkilldash9x/pinlogin/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// viperKeyAnnotation links a flag to the configuration key it overrides.
const viperKeyAnnotation = "viper_key"

// defaultConfigFile is read when --config is not given. A missing file is not an error.
const defaultConfigFile = "pinlogin.yaml"

// NewRootCommand builds a fresh command tree. Each call returns independent
// state, so tests and repeated executions never share flags.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "pinlogin",
		Short:         "pinlogin signs in to Pinterest with a real browser and prints the session cookies.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			// 1. File, environment, then flags.
			if err := initializeConfig(cmd, v, cfgFile); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pinlogin"})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			// 2. Build and validate.
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pinlogin"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			// 3. Logger.
			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting pinlogin", zap.String("version", Version))

			// 4. Hand the config to the subcommand.
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, config.Interface(cfg)))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./"+defaultConfigFile+")")
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newKeyringCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command tree with ctx. Failures are logged here; the
// caller only maps the returned error to an exit code.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		// The login command has already reported the outcome.
	case errors.Is(err, context.Canceled):
		observability.GetLogger().Info("Interrupted.")
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	observability.Sync()
	return err
}

// initializeConfig layers the config file, PINLOGIN_* variables and the
// command's annotated flags onto v.
func initializeConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pinlogin")
		v.SetConfigType("yaml")
	}

	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return bindFlags(cmd, v)
}

// bindFlags binds every flag carrying a viper_key annotation to that key.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[viperKeyAnnotation]
		if !ok || len(keys) == 0 || err != nil {
			return
		}
		err = v.BindPFlag(keys[0], f)
	})
	return err
}

// annotate marks flag as the override for key.
func annotate(cmd *cobra.Command, flag, key string) {
	if err := cmd.Flags().SetAnnotation(flag, viperKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("annotate unknown flag %q: %v", flag, err))
	}
}

// configFromContext returns the configuration stored by PersistentPreRunE.
func configFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not initialized")
	}
	return cfg, nil
}
