package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/state"
)

var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "Show or change personal income facts and account balances",
}

var inputsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved personal information and account balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := newManager().Load(cmd.Context())
		if err != nil {
			return err
		}
		printInputs(cmd.OutOrStdout(), ws.Inputs)
		return nil
	},
}

func printInputs(out io.Writer, in domain.Inputs) {
	p := in.PersonalInfo
	fmt.Fprintln(out, "Personal")
	fmt.Fprintf(out, "  %-22s %d\n", "Age", p.Age)
	fmt.Fprintf(out, "  %-22s %s\n", "Filing status", p.FilingStatus.Label())
	fmt.Fprintf(out, "  %-22s %d x %s\n", "Work income", p.WorkMonths, output.FormatCurrency(p.MonthlyWorkIncome))
	fmt.Fprintf(out, "  %-22s %s from month %d\n", "Pension", output.FormatCurrency(p.MonthlyPension), p.PensionStartMonth)
	fmt.Fprintf(out, "  %-22s %s\n", "Interest", output.FormatCurrency(p.InterestIncome))
	fmt.Fprintf(out, "  %-22s %s\n", "Qualified dividends", output.FormatCurrency(p.QualifiedDividends))
	fmt.Fprintf(out, "  %-22s %s\n", "Ordinary dividends", output.FormatCurrency(p.OrdinaryDividends))
	fmt.Fprintln(out, "Accounts")
	for _, key := range domain.AccountKeys() {
		fmt.Fprintf(out, "  %-22s %s\n", key.Label(), output.FormatCurrency(in.Accounts.Get(key)))
	}
	fmt.Fprintf(out, "  %-22s %s\n", "Total", output.FormatCurrency(in.Accounts.Total()))
}

var inputsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change personal information or account balances",
	Long: `Change personal information or account balances. Only the flags given are
changed.

Examples:
  wtp inputs set --age 67 --filing-status joint
  wtp inputs set --pension 2500 --pension-start 7
  wtp inputs set --account traditional_ira=250000 --account savings=40000
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.NFlag() == 0 {
			return fmt.Errorf("nothing to change")
		}

		var status domain.FilingStatus
		if flags.Changed("filing-status") {
			s, _ := flags.GetString("filing-status")
			parsed, err := domain.ParseFilingStatus(s)
			if err != nil {
				return err
			}
			status = parsed
		}
		balances, _ := flags.GetStringToString("account")
		updates := make(map[domain.AccountKey]string, len(balances))
		for name, amount := range balances {
			key, err := domain.ParseAccountKey(name)
			if err != nil {
				return err
			}
			updates[key] = amount
		}

		return withWorkspace(cmd.Context(), func(ws *state.Workspace) error {
			p := &ws.Inputs.PersonalInfo
			if flags.Changed("age") {
				v, _ := flags.GetString("age")
				p.Age = config.ParseCount(v)
			}
			if flags.Changed("filing-status") {
				p.FilingStatus = status
			}
			if flags.Changed("work-months") {
				v, _ := flags.GetString("work-months")
				p.WorkMonths = config.ParseCount(v)
			}
			if flags.Changed("pension-start") {
				v, _ := flags.GetString("pension-start")
				p.PensionStartMonth = config.ParseCount(v)
			}
			for flag, field := range map[string]*decimal.Decimal{
				"work-income":         &p.MonthlyWorkIncome,
				"pension":             &p.MonthlyPension,
				"interest":            &p.InterestIncome,
				"qualified-dividends": &p.QualifiedDividends,
				"ordinary-dividends":  &p.OrdinaryDividends,
			} {
				if flags.Changed(flag) {
					v, _ := flags.GetString(flag)
					*field = config.ParseNonNegative(v)
				}
			}
			for key, amount := range updates {
				if err := ws.Inputs.Accounts.Set(key, config.ParseNonNegative(amount)); err != nil {
					return err
				}
			}

			plan := ws.Plan()
			if err := config.NewInputParser().ValidatePlan(&plan); err != nil {
				return err
			}
			printInputs(cmd.OutOrStdout(), ws.Inputs)
			return nil
		})
	},
}

func init() {
	f := inputsSetCmd.Flags()
	f.String("age", "", "Age at the end of the tax year")
	f.String("filing-status", "", "single, joint or head_of_household")
	f.String("work-months", "", "Months of work income (0-12)")
	f.String("work-income", "", "Monthly work income")
	f.String("pension", "", "Monthly pension")
	f.String("pension-start", "", "Month the pension starts (1-12, 13 for none this year)")
	f.String("interest", "", "Annual interest income")
	f.String("qualified-dividends", "", "Annual qualified dividends")
	f.String("ordinary-dividends", "", "Annual ordinary dividends")
	f.StringToString("account", nil, "Account balance as ACCOUNT=AMOUNT (repeatable)")

	inputsCmd.AddCommand(inputsShowCmd)
	inputsCmd.AddCommand(inputsSetCmd)
}
