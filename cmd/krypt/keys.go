package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kryptkit/krypt"
	"github.com/kryptkit/krypt/config"
)

// keyEnv names the environment variable consulted when --key is absent.
const keyEnv = "KRYPT_KEY"

var errNoKey = errors.New("no key given: use --key, " + keyEnv + " or save a secure key with 'krypt keygen --save'")

// resolveKey picks the key for mode: the flag, then KRYPT_KEY, then the
// stored secure key (Secure mode only, when auto-load is on), then a hidden
// prompt on an interactive terminal.
func (a *app) resolveKey(mode krypt.Mode, flagKey string) (string, error) {
	if flagKey != "" {
		return flagKey, nil
	}
	if k := a.getenv(keyEnv); k != "" {
		return k, nil
	}
	if mode == krypt.ModeSecure && a.settings.AutoLoadSecureKey && a.settings.SecureKey != "" {
		return a.settings.SecureKey, nil
	}
	if !a.isTerminal() {
		return "", errNoKey
	}

	fmt.Fprintf(a.stderr, "%s key: ", mode)
	b, err := a.readPassword()
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	k := strings.TrimSpace(string(b))
	if k == "" {
		return "", errNoKey
	}
	return k, nil
}

func newKeygenCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random Secure-mode key",
		Long: `Prints a new random 32-byte key in Base64. With --save the key is also
stored as secure_key in the config file, which is written with owner-only
permissions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := krypt.GenerateKey()
			fmt.Fprintln(a.stdout, key)
			if !save {
				return nil
			}

			a.settings.SecureKey = key
			path, err := config.Write(&a.settings, a.configPath)
			if err != nil {
				return fmt.Errorf("save key: %w", err)
			}
			fmt.Fprintf(a.stderr, "Saved key to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the key in the config file")
	return cmd
}
