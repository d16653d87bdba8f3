// Command testhelper exposes the krypt ciphers over JSON on stdin/stdout so
// that other implementations can check wire compatibility against this one.
//
// Usage:
//
//	echo '{"key":"...","text":"hello"}' | testhelper seal
//	testhelper keygen
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kryptkit/krypt"
)

// Config holds the streams used by run.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Request is the JSON document read from stdin.
type Request struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Result is the JSON document written to stdout.
type Result struct {
	Mode   string `json:"mode,omitempty"`
	Action string `json:"action,omitempty"`
	Suite  string `json:"suite,omitempty"`
	Output string `json:"output"`
}

type cipherCommand struct {
	mode   krypt.Mode
	action krypt.Action
}

var cipherCommands = map[string]cipherCommand{
	"seal":          {krypt.ModeSecure, krypt.ActionEncrypt},
	"open":          {krypt.ModeSecure, krypt.ActionDecrypt},
	"xor-encrypt":   {krypt.ModeXOR, krypt.ActionEncrypt},
	"xor-decrypt":   {krypt.ModeXOR, krypt.ActionDecrypt},
	"shift-encrypt": {krypt.ModeShift, krypt.ActionEncrypt},
	"shift-decrypt": {krypt.ModeShift, krypt.ActionDecrypt},
}

// exitFunc is replaced in tests.
var exitFunc = os.Exit

func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: testhelper <command>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if args[1] == "keygen" {
		return writeResult(cfg.Stdout, Result{Suite: krypt.Ciphersuite, Output: krypt.GenerateKey()})
	}

	c, ok := cipherCommands[args[1]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[1])
	}

	engine, err := krypt.New(krypt.WithHistoryRecording(false))
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer engine.Close()

	return runCipher(ctx, engine, c, cfg)
}

func runCipher(ctx context.Context, engine *krypt.Engine, c cipherCommand, cfg *Config) error {
	req, err := readRequest(cfg.Stdin)
	if err != nil {
		return err
	}

	var out string
	if c.action == krypt.ActionEncrypt {
		out, err = engine.Encrypt(ctx, c.mode, req.Key, req.Text)
	} else {
		out, err = engine.Decrypt(ctx, c.mode, req.Key, req.Text)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.action, err)
	}

	return writeResult(cfg.Stdout, Result{
		Mode:   c.mode.String(),
		Action: c.action.String(),
		Output: out,
	})
}

func readRequest(r io.Reader) (Request, error) {
	var req Request
	data, err := io.ReadAll(r)
	if err != nil {
		return req, fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse request: %w", err)
	}
	return req, nil
}

func writeResult(w io.Writer, res Result) error {
	if err := json.NewEncoder(w).Encode(res); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	exitFunc(1)
}
