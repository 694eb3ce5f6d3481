// File: cmd/keyring.go
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pinlogin/internal/config"
	"github.com/xkilldash9x/pinlogin/internal/observability"
	"github.com/xkilldash9x/pinlogin/pkg/credentials"
)

// DefaultKeyringService is used by "keyring set" when no service is configured.
const DefaultKeyringService = "pinlogin"

// keyringStore saves credentials. Tests replace it to keep the real keychain untouched.
var keyringStore = defaultKeyringStore

func defaultKeyringStore(service string, c credentials.Credentials) error {
	return credentials.NewKeyring(service, c.Identifier).Store(c)
}

func newKeyringCmd() *cobra.Command {
	keyringCmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage the password stored in the OS keyring",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Prompt for a password and store it in the OS keyring",
		Long: `Prompt for the account password and store it in the OS keyring, so that
"pinlogin login --keyring SERVICE" can sign in without a prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runKeyringSet(cmd.Context(), cfg, observability.GetLogger(), cmd.InOrStdin(), cmd.ErrOrStderr())
		},
	}
	setCmd.Flags().StringP("identifier", "u", "", "account identifier (email)")
	setCmd.Flags().String("service", "", "keyring service name (default \""+DefaultKeyringService+"\")")
	annotate(setCmd, "identifier", "credentials.identifier")
	annotate(setCmd, "service", "credentials.keyring_service")

	keyringCmd.AddCommand(setCmd)
	return keyringCmd
}

func runKeyringSet(ctx context.Context, cfg config.Interface, logger *zap.Logger, in io.Reader, prompts io.Writer) error {
	cc := cfg.Credentials()
	service := cc.KeyringService
	if service == "" {
		service = DefaultKeyringService
	}

	prompt := credentials.NewInteractive(in, prompts, credentials.WithPresetIdentifier(cc.Identifier))
	creds, err := prompt.Credentials(ctx)
	if err != nil {
		return err
	}

	if err := keyringStore(service, creds); err != nil {
		return err
	}
	logger.Info("Stored password in keyring.", zap.String("service", service), zap.Object("credentials", creds))
	fmt.Fprintf(prompts, "Stored password for %s in keyring service %q.\n", credentials.MaskIdentifier(creds.Identifier), service)
	return nil
}
