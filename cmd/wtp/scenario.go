package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/scenario"
	"github.com/rgehrsitz/wtp/internal/sequencing"
	"github.com/rgehrsitz/wtp/internal/state"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage the saved what-if scenarios",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios with their withdrawals and sales",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := newManager().Load(cmd.Context())
		if err != nil {
			return err
		}
		printScenarios(cmd.OutOrStdout(), ws)
		return nil
	},
}

func printScenarios(out io.Writer, ws *state.Workspace) {
	for _, s := range ws.Scenarios.List() {
		marker := " "
		if s.ID == ws.Scenarios.ActiveID() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d. %s\n", marker, s.ID, s.Name)
		for _, key := range domain.AccountKeys() {
			if amount := s.Withdrawals.Get(key); amount.IsPositive() {
				fmt.Fprintf(out, "    withdraw %-20s %s\n", key.Label(), output.FormatCurrency(amount))
			}
		}
		for _, class := range domain.AssetClasses() {
			for _, sale := range s.Sales(class) {
				fmt.Fprintf(out, "    sell %-24s %s %s\n", sale.Asset, output.FormatQuantity(sale.Quantity), class.UnitName())
			}
		}
	}
	for _, w := range ws.Warnings() {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
}

var scenarioAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty scenario and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			s, err := ws.Scenarios.Add()
			if err != nil {
				return err
			}
			if name = strings.TrimSpace(name); name != "" {
				if err := ws.Scenarios.Rename(s.ID, name); err != nil {
					return err
				}
				s.Name = name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added scenario %d (%s)\n", s.ID, s.Name)
			return nil
		})
	},
}

var scenarioRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			if err := ws.Scenarios.Remove(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed scenario %d, active is now %d\n", id, ws.Scenarios.ActiveID())
			return nil
		})
	},
}

var scenarioRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Rename a scenario",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			return ws.Scenarios.Rename(id, args[1])
		})
	},
}

var scenarioActivateCmd = &cobra.Command{
	Use:   "activate ID",
	Short: "Make a scenario the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			return ws.Scenarios.SetActive(id)
		})
	},
}

var scenarioWithdrawCmd = &cobra.Command{
	Use:   "withdraw ID ACCOUNT AMOUNT",
	Short: "Set the amount withdrawn from an account",
	Long: `Set the amount a scenario withdraws from one account.

ACCOUNT is one of savings, traditional_ira, roth_ira, traditional_401k or
roth_401k. Amounts may carry a dollar sign and thousands separators; text that
is not a number counts as zero.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		key, err := domain.ParseAccountKey(args[1])
		if err != nil {
			return err
		}
		amount := config.ParseAmount(args[2])
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			if err := ws.Scenarios.SetWithdrawal(id, key, amount); err != nil {
				return err
			}
			if have := ws.Inputs.Accounts.Get(key); amount.GreaterThan(have) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s withdrawal %s exceeds the %s balance\n",
					key.Label(), output.FormatCurrency(amount), output.FormatCurrency(have))
			}
			return nil
		})
	},
}

var scenarioSellCmd = &cobra.Command{
	Use:   "sell ID CLASS ASSET QUANTITY",
	Short: "Plan the sale of part of a holding",
	Long: `Set how much of a holding a scenario sells.

CLASS is stock, crypto or metal. ASSET names a holding of that class; a name
with no matching holding is kept but contributes nothing. Use --remove to drop
the sale entry instead.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		class, err := domain.ParseAssetClass(args[1])
		if err != nil {
			return err
		}
		asset := args[2]
		remove, _ := cmd.Flags().GetBool("remove")
		if !remove && len(args) != 4 {
			return fmt.Errorf("QUANTITY is required unless --remove is set")
		}
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			if remove {
				return ws.Scenarios.RemoveSale(id, class, asset)
			}
			qty := config.ParseAmount(args[3])
			if err := ws.Scenarios.UpsertSale(id, class, asset, qty); err != nil {
				return err
			}
			if _, ok := ws.Inputs.Holdings.Class(class).Find(asset); !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no %s holding named %q\n", strings.ToLower(class.Label()), asset)
			}
			return nil
		})
	},
}

var scenarioFillCmd = &cobra.Command{
	Use:   "fill ID AMOUNT",
	Short: "Spread a withdrawal amount across the accounts",
	Long: `Replace a scenario's account withdrawals with AMOUNT drawn in the order a
strategy picks:

  standard       savings, traditional, then Roth
  tax_efficient  savings, Roth, then traditional
  bracket_fill   traditional up to the room left before the next bracket or
                 IRMAA tier, then savings and Roth, then more traditional
  custom         the order given with --order

Planned asset sales are kept and count against the bracket room.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		need := config.ParseNonNegative(args[1])
		name, _ := cmd.Flags().GetString("strategy")
		orderNames, _ := cmd.Flags().GetStringSlice("order")
		var order []domain.AccountKey
		for _, n := range orderNames {
			key, err := domain.ParseAccountKey(n)
			if err != nil {
				return err
			}
			order = append(order, key)
		}
		strategy, err := sequencing.CreateStrategy(name, order)
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, strings.Join(sequencing.StrategyNames(), ", "))
		}

		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			s, ok := ws.Scenarios.Get(id)
			if !ok {
				return fmt.Errorf("%w: id %d", scenario.ErrNotFound, id)
			}
			ev, err := newEvaluator(0)
			if err != nil {
				return err
			}
			plan := sequencing.Fill(ev, strategy, s, ws.Snapshot(), need)
			withdrawals := plan.Withdrawals()
			for _, key := range domain.AccountKeys() {
				if err := ws.Scenarios.SetWithdrawal(id, key, withdrawals.Get(key)); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s sourced with %s\n", s.Name, output.FormatCurrency(plan.TotalSourced), plan.Strategy)
			for _, a := range plan.Allocations {
				fmt.Fprintf(out, "    %-20s %14s  %s\n", a.Account.Label(), output.FormatCurrency(a.Amount), a.Treatment)
			}
			for _, note := range plan.Notes {
				fmt.Fprintf(out, "Note: %s\n", note)
			}
			return nil
		})
	},
}

func init() {
	scenarioFillCmd.Flags().String("strategy", "standard", "Withdrawal order ("+strings.Join(sequencing.StrategyNames(), ", ")+")")
	scenarioFillCmd.Flags().StringSlice("order", nil, "Account order for the custom strategy")
	scenarioAddCmd.Flags().String("name", "", "Name for the new scenario")
	scenarioSellCmd.Flags().Bool("remove", false, "Remove the sale entry")

	scenarioCmd.AddCommand(scenarioListCmd)
	scenarioCmd.AddCommand(scenarioAddCmd)
	scenarioCmd.AddCommand(scenarioRemoveCmd)
	scenarioCmd.AddCommand(scenarioRenameCmd)
	scenarioCmd.AddCommand(scenarioActivateCmd)
	scenarioCmd.AddCommand(scenarioWithdrawCmd)
	scenarioCmd.AddCommand(scenarioSellCmd)
	scenarioCmd.AddCommand(scenarioFillCmd)
}
