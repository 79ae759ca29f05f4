package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/secret"
	"github.com/rgehrsitz/wtp/internal/state"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wtp %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// Persistent flags shared by every command.
var (
	stateDir  string
	rulesFile string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "wtp",
	Short: "Retirement withdrawal tax planner",
	Long: `Plan one tax year of retirement account withdrawals and asset sales.

wtp estimates federal and state income tax, shows how far income fills each
bracket, and flags Medicare IRMAA surcharge tiers for up to five what-if
scenarios. Planner data is saved in --state-dir between runs.`,
	SilenceUsage: true,
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "wtp")
	}
	return ".wtp"
}

func logger() calculation.Logger {
	if debugMode {
		return simpleCLILogger{}
	}
	return calculation.NopLogger{}
}

func newManager() *state.Manager {
	m := state.NewManager(state.NewFileKV(stateDir))
	m.SetLogger(logger())
	return m
}

func newVault() *secret.Vault {
	return secret.NewVault(filepath.Join(stateDir, "apikey.sealed"))
}

// newEvaluator resolves the tax tables for taxYear (zero for the default year).
func newEvaluator(taxYear int) (*calculation.Evaluator, error) {
	rules, err := config.ResolveRules(rulesFile, taxYear)
	if err != nil {
		return nil, err
	}
	ev := calculation.NewEvaluator(rules)
	ev.SetLogger(logger())
	return ev, nil
}

// withWorkspace loads the saved workspace, applies fn and saves the result.
// Nothing is saved when fn fails.
func withWorkspace(ctx context.Context, fn func(ws *state.Workspace) error) error {
	mgr := newManager()
	ws, err := mgr.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	return mgr.Save(ctx, ws)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scenario id %q", s)
	}
	return id, nil
}

// loadPlan reads a plan file, or the saved workspace when path is empty.
func loadPlan(ctx context.Context, path string) (*domain.Plan, error) {
	if path != "" {
		return config.NewInputParser().LoadFromFile(path)
	}
	ws, err := newManager().Load(ctx)
	if err != nil {
		return nil, err
	}
	plan := ws.Plan()
	return &plan, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "Directory holding saved planner data")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "Regulatory YAML overriding the built-in tax tables")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inputsCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(holdingCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(apikeyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
