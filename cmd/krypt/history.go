package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kryptkit/krypt"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or manage the history of recent operations",
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryClearCmd(a),
		newHistoryExportCmd(a),
		newHistoryImportCmd(a),
	)
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent operations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engineFor(cmd.Context())
			if err != nil {
				return err
			}
			entries := engine.HistoryList()

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.stdout, "No history.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(a.stdout, formatEntry(e))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func formatEntry(e krypt.HistoryEntry) string {
	return fmt.Sprintf("%s  %-6s %-7s key=%-6s  %q -> %q",
		e.Date.Local().Format(time.DateTime), e.Mode, e.Action, e.KeyHint, e.InputPreview, e.OutputPreview)
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engineFor(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.HistoryClear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engineFor(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.History().ExportToFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Exported %d entries to %s\n", engine.History().Len(), args[0])
			return nil
		},
	}
}

func newHistoryImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the history with the contents of a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engineFor(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.History().ImportFromFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %d entries\n", engine.History().Len())
			return nil
		},
	}
}
