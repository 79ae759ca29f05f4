package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/quote"
	"github.com/rgehrsitz/wtp/internal/secret"
)

// newPriceSource builds the provider chain. Tests replace it.
var newPriceSource = func(apiKey string) quote.PriceSource {
	chain := quote.NewChain(quote.DefaultProviders(quote.NewClient(), apiKey)...)
	chain.Logger = logger()
	return chain
}

// resolveAPIKey returns the key given on the command line, else the key in
// the sealed vault when a passphrase is available. Missing keys are not an
// error: the free providers work without one.
func resolveAPIKey(cmd *cobra.Command) string {
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		return key
	}
	vault := newVault()
	if !vault.Exists() {
		return ""
	}
	passphrase := os.Getenv(secret.PassphraseEnv)
	if passphrase == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: a stored API key exists but %s is not set; continuing without it\n", secret.PassphraseEnv)
		return ""
	}
	key, err := vault.Load(passphrase)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open the stored API key: %v\n", err)
		return ""
	}
	return key
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Update holding prices from online quote providers",
}

var pricesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch current prices for stock holdings named like tickers",
	Long: `Fetch current prices for every stock holding whose name is a ticker symbol
(one to five capital letters). Providers are tried in order: Yahoo Finance,
Twelve Data, then Alpha Vantage when an API key is available.

The key comes from --api-key or from the key stored with "wtp apikey set".
Interrupting the refresh keeps the prices already fetched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		mgr := newManager()
		ws, err := mgr.Load(ctx)
		if err != nil {
			return err
		}
		if ws.APIKey != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), `Warning: the saved planner data carries a plain-text API key; it is not used. Store it with "wtp apikey set" instead.`)
		}

		refresher := quote.NewRefresher(newPriceSource(resolveAPIKey(cmd)))
		refresher.Logger = logger()
		if cmd.Flags().Changed("delay") {
			refresher.Delay, _ = cmd.Flags().GetDuration("delay")
		}

		out := cmd.OutOrStdout()
		report, refreshErr := refresher.Refresh(ctx, ws.Inputs.Holdings.Stocks.Clone(), func(name string, price decimal.Decimal) error {
			return ws.SetPrice(domain.ClassStock, name, price)
		})
		for _, o := range report.Outcomes {
			switch o.Status {
			case quote.StatusUpdated:
				fmt.Fprintf(out, "  %-8s %10s  %s\n", o.Symbol, o.Price.StringFixed(2), o.Provider)
			case quote.StatusFailed:
				fmt.Fprintf(out, "  %-8s %10s  %v\n", o.Symbol, "failed", o.Err)
			}
		}
		fmt.Fprintln(out, report.Summary())

		if report.Updated > 0 {
			// an interrupted run still keeps what was fetched
			if err := mgr.Save(context.WithoutCancel(ctx), ws); err != nil {
				return err
			}
		}
		if errors.Is(refreshErr, context.Canceled) {
			return fmt.Errorf("price refresh interrupted")
		}
		return refreshErr
	},
}

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage the Alpha Vantage API key",
	Long: `Manage the Alpha Vantage API key used by "wtp prices refresh".

The key is sealed under a passphrase taken from ` + secret.PassphraseEnv + ` and kept in
its own file in --state-dir. It is never written to the planner data or to
exports unless "wtp export --include-api-key" asks for it.`,
}

var apikeySetCmd = &cobra.Command{
	Use:   "set [KEY]",
	Short: "Store an API key, read from standard input when KEY is omitted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase := os.Getenv(secret.PassphraseEnv)
		if passphrase == "" {
			return fmt.Errorf("%w: set %s", secret.ErrEmptyPassphrase, secret.PassphraseEnv)
		}
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading API key: %w", err)
			}
			key = line
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("API key is empty")
		}
		vault := newVault()
		if err := vault.Store(passphrase, key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key stored in %s\n", vault.Path())
		return nil
	},
}

var apikeyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newVault().Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
		return nil
	},
}

var apikeyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API key is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vault := newVault()
		out := cmd.OutOrStdout()
		if !vault.Exists() {
			fmt.Fprintln(out, "No API key stored")
			return nil
		}
		passphrase := os.Getenv(secret.PassphraseEnv)
		if passphrase == "" {
			fmt.Fprintf(out, "API key stored in %s (set %s to unlock)\n", vault.Path(), secret.PassphraseEnv)
			return nil
		}
		if _, err := vault.Load(passphrase); err != nil {
			return err
		}
		fmt.Fprintf(out, "API key stored in %s and unlocked\n", vault.Path())
		return nil
	},
}

func init() {
	pricesRefreshCmd.Flags().String("api-key", "", "Alpha Vantage API key for this run only")
	pricesRefreshCmd.Flags().Duration("delay", quote.DefaultDelay, "Pause between lookups")
	pricesCmd.AddCommand(pricesRefreshCmd)

	apikeyCmd.AddCommand(apikeySetCmd)
	apikeyCmd.AddCommand(apikeyClearCmd)
	apikeyCmd.AddCommand(apikeyStatusCmd)
}
