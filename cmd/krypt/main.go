// Command krypt encrypts and decrypts text from the terminal and hosts a
// local ephemeral message room.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kryptkit/krypt"
	"github.com/kryptkit/krypt/config"
	"github.com/kryptkit/krypt/internal/logging"
	"github.com/kryptkit/krypt/store"
)

var version = "dev" // set by the linker

// annotationConfigOptional marks commands that may run before the file named
// by --config exists.
const annotationConfigOptional = "krypt/config-optional"

// app carries the process streams, the resolved settings and the lazily
// created engine shared by all commands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	getenv       func(string) string
	isTerminal   func() bool
	readPassword func() ([]byte, error)
	copyText     func(string) error
	runRoom      func(*app, *krypt.Room) error

	configPath string
	noHistory  bool

	settings   config.Settings
	logger     *slog.Logger
	engine     *krypt.Engine
	closeStore func() error
}

func newApp() *app {
	return &app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		getenv:     os.Getenv,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		readPassword: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
		copyText: clipboard.WriteAll,
		runRoom:  runRoomTUI,
		logger:   logging.Discard(),
	}
}

func main() {
	a := newApp()
	err := execute(context.Background(), a, os.Args[1:])
	if err != nil {
		fmt.Fprintln(a.stderr, "Error:", krypt.UserMessage(err))
		a.logger.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

// execute runs the command tree for args and releases the engine afterwards.
func execute(ctx context.Context, a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "krypt",
		Short: "Encrypt and decrypt text, and chat in an ephemeral local room.",
		Long: `krypt encrypts text with ChaCha20-Poly1305 (Secure) or with one of two
classical ciphers (XOR, Shift), keeps a short history of recent operations
and hosts a local room whose messages vanish after a fixed time.

Settings are read from krypt.yaml in the user config directory, KRYPT_*
environment variables and flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.SetVersionTemplate("krypt {{.Version}} (Secure mode: " + krypt.Ciphersuite + ")\n")

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is <user config dir>/krypt/krypt.yaml)")
	cmd.PersistentFlags().String("format", "", `output format for ciphertext ("base64", "hex", "pretty")`)
	cmd.PersistentFlags().String("log-level", "", `log level ("debug", "info", "warn", "error")`)
	cmd.PersistentFlags().String("log-format", "", `log format ("text", "json")`)
	cmd.PersistentFlags().BoolVar(&a.noHistory, "no-history", false, "do not read or record history")

	cmd.AddCommand(
		newEncryptCmd(a),
		newDecryptCmd(a),
		newKeygenCmd(a),
		newHistoryCmd(a),
		newRoomCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// setup resolves settings and installs the logger. The engine is created on
// first use so that commands which never touch it do not open the store.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if cmd.Annotations[annotationConfigOptional] == "true" && path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	settings, err := config.Load(cmd, path)
	if err != nil {
		return err
	}
	a.settings = settings

	logger, err := logging.Setup(a.stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// engineFor returns the shared engine, creating it and its history store on
// first call.
func (a *app) engineFor(ctx context.Context) (*krypt.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}

	backend, err := store.ParseBackend(a.settings.History.Backend)
	if err != nil {
		return nil, err
	}
	if a.noHistory {
		backend = store.BackendMemory
	}

	hs, closeStore, err := store.Open(backend, a.settings.History.Path, store.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	engine, err := krypt.New(
		krypt.WithHistoryStore(hs),
		krypt.WithHistoryRecording(!a.noHistory),
		krypt.WithLogger(a.logger),
	)
	if err != nil {
		closeStore()
		return nil, err
	}

	a.logger.DebugContext(ctx, "engine ready", "backend", backend, "path", a.settings.History.Path)
	a.engine = engine
	a.closeStore = closeStore
	return engine, nil
}

func (a *app) close() error {
	var errs []error
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
		a.engine = nil
	}
	if a.closeStore != nil {
		errs = append(errs, a.closeStore())
		a.closeStore = nil
	}
	return errors.Join(errs...)
}
