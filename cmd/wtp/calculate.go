package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/wtp/internal/compare"
	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/state"
)

// warningsFor lists balance warnings for a plan as report lines.
func warningsFor(plan *domain.Plan) ([]string, error) {
	ws, err := state.FromPlan(plan)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, w := range ws.Warnings() {
		out = append(out, w.String())
	}
	return out, nil
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Calculate taxes for every scenario",
	Long: `Evaluate every scenario of a plan and print the result.

Without a plan file the saved planner data is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		plan, err := loadPlan(cmd.Context(), path)
		if err != nil {
			return err
		}
		ev, err := newEvaluator(plan.TaxYear)
		if err != nil {
			return err
		}

		results := ev.EvaluateAll(plan.Scenarios, plan.Inputs)
		report := output.NewReport(plan.Inputs, results, plan.ActiveScenario, time.Now())
		if report.Warnings, err = warningsFor(plan); err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(format)
		if f == nil {
			return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			name, err := output.WriteFormatted(f, report, extensionFor(f.Name()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", name)
			return nil
		}

		data, err := f.Format(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func extensionFor(formatter string) string {
	switch formatter {
	case "markdown":
		return "md"
	case "console", "terminal":
		return "txt"
	default:
		return formatter
	}
}

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare scenarios against a base scenario",
	Long: `Compare a base scenario against the other scenarios of a plan.

Examples:
  wtp compare plan.yaml --base 1 --with 2,3
  wtp compare --format csv
  wtp compare plan.yaml --format markdown
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		plan, err := loadPlan(cmd.Context(), path)
		if err != nil {
			return err
		}
		ev, err := newEvaluator(plan.TaxYear)
		if err != nil {
			return err
		}

		base, _ := cmd.Flags().GetInt("base")
		with, _ := cmd.Flags().GetIntSlice("with")
		set, err := compare.NewCompareEngine(ev).Compare(cmd.Context(), plan, compare.CompareOptions{
			BaseScenarioID: base,
			ScenarioIDs:    with,
		})
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}

		out := cmd.OutOrStdout()
		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "csv":
			text, err := (&compare.CSVFormatter{}).Format(set)
			if err != nil {
				return fmt.Errorf("failed to format CSV: %w", err)
			}
			fmt.Fprint(out, text)
		case "json":
			text, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprint(out, text)
		case "table", "":
			fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
		case "compact":
			fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(set))
		default:
			// any report formatter renders the compared scenarios side by side
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown output format %q (valid: table, compact, csv, json, %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}
			data, err := f.Format(set.ToReport(plan.Inputs))
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		if _, err := newEvaluator(plan.TaxYear); err != nil {
			return err
		}
		warnings, err := warningsFor(plan)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range warnings {
			fmt.Fprintf(out, "Warning: %s\n", w)
		}
		fmt.Fprintf(out, "Plan file %s is valid\n", args[0])
		return nil
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	calculateCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")

	compareCmd.Flags().Int("base", 0, "Base scenario id (default: the active scenario)")
	compareCmd.Flags().IntSlice("with", nil, "Scenario ids to compare (default: every other scenario)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json or any report format)")
}
