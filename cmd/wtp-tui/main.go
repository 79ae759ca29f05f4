package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/quote"
	"github.com/rgehrsitz/wtp/internal/secret"
	"github.com/rgehrsitz/wtp/internal/state"
	"github.com/rgehrsitz/wtp/internal/tui"
)

// fileLogger writes through the standard logger, which points at the debug
// log file while the TUI owns the terminal.
type fileLogger struct{}

func (fileLogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (fileLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (fileLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (fileLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	stateDir  string
	rulesFile string
	debugLog  string
	apiKey    string
	noPrices  bool
)

var rootCmd = &cobra.Command{
	Use:          "wtp-tui",
	Short:        "Interactive withdrawal tax planner",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	var logger calculation.Logger = calculation.NopLogger{}
	if debugLog != "" {
		f, err := tea.LogToFile(debugLog, "wtp")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = fileLogger{}
	}

	rules, err := config.ResolveRules(rulesFile, 0)
	if err != nil {
		return err
	}
	ev := calculation.NewEvaluator(rules)
	ev.SetLogger(logger)

	mgr := state.NewManager(state.NewFileKV(stateDir))
	mgr.SetLogger(logger)

	opts := tui.Options{Manager: mgr, Evaluator: ev}
	if !noPrices {
		chain := quote.NewChain(quote.DefaultProviders(quote.NewClient(), resolveAPIKey(cmd))...)
		chain.Logger = logger
		opts.Refresher = quote.NewRefresher(chain)
		opts.Refresher.Logger = logger
	}

	p := tea.NewProgram(
		tui.NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// resolveAPIKey prefers --api-key, then the sealed key when WTP_PASSPHRASE
// unlocks it. Without either the free providers are used alone.
func resolveAPIKey(cmd *cobra.Command) string {
	if apiKey != "" {
		return apiKey
	}
	vault := secret.NewVault(filepath.Join(stateDir, "apikey.sealed"))
	passphrase := os.Getenv(secret.PassphraseEnv)
	if !vault.Exists() || passphrase == "" {
		return ""
	}
	key, err := vault.Load(passphrase)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open the stored API key: %v\n", err)
		return ""
	}
	return key
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "wtp")
	}
	return ".wtp"
}

func init() {
	rootCmd.Flags().StringVar(&stateDir, "state-dir", defaultStateDir(), "Directory holding saved planner data")
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "Regulatory YAML overriding the built-in tax tables")
	rootCmd.Flags().StringVar(&debugLog, "debug-log", "", "Write debug logging to this file")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Alpha Vantage API key for this session only")
	rootCmd.Flags().BoolVar(&noPrices, "no-prices", false, "Disable online price refresh")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
