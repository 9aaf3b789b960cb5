package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teemow/meeting-mcp/internal/credentials"
	"github.com/teemow/meeting-mcp/internal/logging"
)

// keyStore is the keyring surface the auth commands use.
type keyStore interface {
	Save(key string) error
	Load() (string, error)
	Delete() error
	Description() string
}

// authKeyStore is replaced in tests.
var authKeyStore keyStore = credentials.Keyring{}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Meeting BaaS API key",
		Long: `Store the Meeting BaaS API key in the system keyring, show which key
would be used, or remove the stored key.`,
	}

	cmd.AddCommand(newAuthSetKeyCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthClearCmd())
	return cmd
}

func newAuthSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [api-key]",
		Short: "Store the API key in the system keyring",
		Long: `Store the API key in the system keyring. Without an argument the key is
read from standard input, which keeps it out of the shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
				var err error
				if key, err = promptKey(cmd.InOrStdin()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err := authKeyStore.Save(key); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key stored in %s\n", authKeyStore.Description())
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which API key would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			resolver := credentials.NewResolver(authKeyStore, cfg.APIKey, slog.Default())
			key, source, err := resolver.Resolve(cmdContext(cmd))
			if errors.Is(err, credentials.ErrNoCredentials) {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key configured.")
				fmt.Fprintln(cmd.OutOrStdout(), "Run 'meeting-mcp auth set-key' or set "+credentials.EnvAPIKey+".")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key: %s\nSource: %s\n", logging.SanitizeAPIKey(key), source)
			return nil
		},
	}
}

func newAuthClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the API key from the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authKeyStore.Delete(); err != nil {
				return fmt.Errorf("failed to remove API key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key removed from %s\n", authKeyStore.Description())
			return nil
		},
	}
}

// promptKey reads the key without echo when r is a terminal.
func promptKey(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return readKey(strings.NewReader(string(b)))
	}
	return readKey(r)
}

func readKey(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", errors.New("no API key given")
	}
	return key, nil
}
