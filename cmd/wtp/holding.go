package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/state"
)

var holdingCmd = &cobra.Command{
	Use:   "holding",
	Short: "Manage stock, crypto and precious metal holdings",
}

var holdingListCmd = &cobra.Command{
	Use:   "list [CLASS]",
	Short: "List holdings, optionally of one class",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classes := domain.AssetClasses()
		if len(args) == 1 {
			class, err := domain.ParseAssetClass(args[0])
			if err != nil {
				return err
			}
			classes = []domain.AssetClass{class}
		}
		ws, err := newManager().Load(cmd.Context())
		if err != nil {
			return err
		}
		for _, class := range classes {
			printHoldings(cmd.OutOrStdout(), class, ws.Inputs.Holdings.Class(class))
		}
		return nil
	},
}

func printHoldings(out io.Writer, class domain.AssetClass, set domain.HoldingSet) {
	fmt.Fprintf(out, "%s (%d/%d)\n", class.Label(), len(set), domain.MaxHoldingsPerClass)
	if len(set) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	fmt.Fprintf(out, "  %-16s %12s %12s %12s %14s %14s\n", "Name", "Quantity", "Basis", "Price", "Value", "Gain")
	for _, h := range set {
		fmt.Fprintf(out, "  %-16s %12s %12s %12s %14s %14s\n",
			h.Name,
			output.FormatQuantity(h.Quantity),
			output.FormatCurrency(h.CostBasis),
			output.FormatCurrency(h.CurrentPrice),
			output.FormatCurrency(h.TotalValue()),
			output.FormatCurrency(h.TotalGain()))
	}
	fmt.Fprintf(out, "  %-16s %12s %12s %12s %14s\n", "Total", "", "", "", output.FormatCurrency(set.TotalValue()))
}

var holdingAddCmd = &cobra.Command{
	Use:   "add CLASS NAME QUANTITY BASIS PRICE",
	Short: "Add a holding",
	Long: `Add a holding to a class. BASIS and PRICE are per unit.

Stock holdings named like a ticker (one to five capital letters) are picked up
by "wtp prices refresh".`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := domain.ParseAssetClass(args[0])
		if err != nil {
			return err
		}
		h := domain.Holding{
			Name:         args[1],
			Quantity:     config.ParseNonNegative(args[2]),
			CostBasis:    config.ParseNonNegative(args[3]),
			CurrentPrice: config.ParseNonNegative(args[4]),
		}
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			return ws.AddHolding(class, h)
		})
	},
}

var holdingRemoveCmd = &cobra.Command{
	Use:   "remove CLASS NAME",
	Short: "Remove a holding and every planned sale of it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := domain.ParseAssetClass(args[0])
		if err != nil {
			return err
		}
		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			return ws.RemoveHolding(class, args[1])
		})
	},
}

var holdingSetCmd = &cobra.Command{
	Use:   "set CLASS NAME",
	Short: "Change fields of a holding",
	Long: `Change the name, quantity, basis or price of a holding. Only the flags
given are changed. A rename carries planned sales along.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := domain.ParseAssetClass(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.NFlag() == 0 {
			return fmt.Errorf("nothing to change: pass --name, --quantity, --basis or --price")
		}
		name, _ := flags.GetString("name")
		quantity, _ := flags.GetString("quantity")
		basis, _ := flags.GetString("basis")
		price, _ := flags.GetString("price")

		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			return ws.UpdateHolding(class, args[1], func(h *domain.Holding) {
				if flags.Changed("name") {
					h.Name = name
				}
				if flags.Changed("quantity") {
					h.Quantity = config.ParseNonNegative(quantity)
				}
				if flags.Changed("basis") {
					h.CostBasis = config.ParseNonNegative(basis)
				}
				if flags.Changed("price") {
					h.CurrentPrice = config.ParseNonNegative(price)
				}
			})
		})
	},
}

func init() {
	holdingSetCmd.Flags().String("name", "", "New holding name")
	holdingSetCmd.Flags().String("quantity", "", "Shares or units held")
	holdingSetCmd.Flags().String("basis", "", "Cost basis per unit")
	holdingSetCmd.Flags().String("price", "", "Current price per unit")

	holdingCmd.AddCommand(holdingListCmd)
	holdingCmd.AddCommand(holdingAddCmd)
	holdingCmd.AddCommand(holdingRemoveCmd)
	holdingCmd.AddCommand(holdingSetCmd)
}
