package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/secret"
	"github.com/rgehrsitz/wtp/internal/state"
)

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the planner data to a JSON file",
	Long: `Export the planner data to a JSON file, by default
retirement-plan-YYYY-MM-DD.json in the working directory. Use "-" for
standard output.

The API key is left out unless --include-api-key is given, in which case the
stored key is unlocked with ` + secret.PassphraseEnv + ` and written in plain text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := newManager().Load(cmd.Context())
		if err != nil {
			return err
		}

		includeKey, _ := cmd.Flags().GetBool("include-api-key")
		if includeKey {
			passphrase := os.Getenv(secret.PassphraseEnv)
			if passphrase == "" {
				return fmt.Errorf("cannot include API key: %w: set %s", secret.ErrEmptyPassphrase, secret.PassphraseEnv)
			}
			key, err := newVault().Load(passphrase)
			if err != nil {
				return fmt.Errorf("cannot include API key: %w", err)
			}
			ws.APIKey = key
		}

		now := time.Now()
		name := state.ExportFileName(now)
		if len(args) == 1 {
			name = args[0]
		}
		if name == "-" {
			return state.Export(cmd.OutOrStdout(), ws, includeKey, now)
		}

		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		if err := state.Export(f, ws, includeKey, now); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", name)
		if includeKey {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s contains your API key in plain text\n", name)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the planner data with an exported JSON file",
	Long: `Replace the planner data with an exported JSON file. Older files without
scenarios are migrated into a single scenario. Use "-" for standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		mgr := newManager()
		current, err := mgr.Load(cmd.Context())
		if err != nil {
			return err
		}
		ws, err := state.Import(in, current)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if ws.APIKey != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), `Warning: the imported file carries an API key; it was not saved. Use "wtp apikey set" to keep it.`)
			ws.APIKey = ""
		}
		if err := mgr.Save(cmd.Context(), ws); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d scenarios from %s\n", ws.Scenarios.Len(), args[0])
		for _, w := range ws.Warnings() {
			fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s\n", w)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the planner data and start over from the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset discards every scenario and input; pass --yes to confirm")
		}
		if _, err := newManager().Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Planner data reset to defaults")
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("include-api-key", false, "Write the stored API key into the export")
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
