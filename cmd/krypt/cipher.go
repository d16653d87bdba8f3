package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kryptkit/krypt"
)

type cipherOptions struct {
	mode        string
	key         string
	copy        bool
	inputFormat string
}

func (o *cipherOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.mode, "mode", "m", string(krypt.ModeSecure), `cipher mode ("secure", "xor", "shift")`)
	cmd.Flags().StringVarP(&o.key, "key", "k", "", "key: Base64 (secure), integer (xor) or integer list (shift)")
}

func newEncryptCmd(a *app) *cobra.Command {
	var opts cipherOptions
	cmd := &cobra.Command{
		Use:   "encrypt [text...]",
		Short: "Encrypt text",
		Long: `Encrypts the arguments joined by spaces, or standard input when no
arguments are given. Secure and XOR output is Base64 rendered in the
configured output format; Shift output is text.`,
		Example: `  krypt encrypt -k "$(krypt keygen)" "meet at noon"
  echo hello | krypt encrypt -m xor -k 12
  krypt encrypt -m shift -k 1,2 "Hi, there"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.encrypt(cmd.Context(), opts, args)
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "copy the result to the clipboard")
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	var opts cipherOptions
	cmd := &cobra.Command{
		Use:   "decrypt [text...]",
		Short: "Decrypt text",
		Long: `Decrypts the arguments joined by spaces, or standard input when no
arguments are given. Base64 input may be URL-safe, unpadded or wrapped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.decrypt(cmd.Context(), opts, args)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", `input format ("base64", "hex", "pretty"); default base64`)
	return cmd
}

func (a *app) encrypt(ctx context.Context, opts cipherOptions, args []string) error {
	mode, err := krypt.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	text, err := a.readText(args)
	if err != nil {
		return err
	}
	key, err := a.resolveKey(mode, opts.key)
	if err != nil {
		return err
	}
	engine, err := a.engineFor(ctx)
	if err != nil {
		return err
	}

	out, err := engine.Encrypt(ctx, mode, key, text)
	if err != nil {
		return err
	}

	if mode != krypt.ModeShift {
		format, err := krypt.ParseOutputFormat(a.settings.OutputFormat)
		if err != nil {
			return err
		}
		if out, err = krypt.FormatOutput(out, format); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.stdout, out)

	if opts.copy || a.settings.AutoCopyAfterEncrypt {
		if err := a.copyText(out); err != nil {
			a.logger.WarnContext(ctx, "could not copy to clipboard", "error", err)
		} else {
			a.logger.InfoContext(ctx, "copied to clipboard")
		}
	}
	return nil
}

func (a *app) decrypt(ctx context.Context, opts cipherOptions, args []string) error {
	mode, err := krypt.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	text, err := a.readText(args)
	if err != nil {
		return err
	}

	if mode != krypt.ModeShift {
		format, err := krypt.ParseOutputFormat(opts.inputFormat)
		if err != nil {
			return err
		}
		if text, err = krypt.ParseInput(text, format); err != nil {
			return err
		}
	}

	key, err := a.resolveKey(mode, opts.key)
	if err != nil {
		return err
	}
	engine, err := a.engineFor(ctx)
	if err != nil {
		return err
	}

	out, err := engine.Decrypt(ctx, mode, key, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, out)
	return nil
}

// readText joins args, or reads stdin when there are none. A single trailing
// line break from stdin is dropped.
func (a *app) readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}
