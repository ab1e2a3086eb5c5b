package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tecuops/dispatch-sla/internal/advisor"
	"github.com/tecuops/dispatch-sla/internal/calendar"
	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/ingest"
	"github.com/tecuops/dispatch-sla/internal/logging"
	"github.com/tecuops/dispatch-sla/internal/report"
	"github.com/tecuops/dispatch-sla/internal/sla"
)

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:   "dispatchsla",
		Short: "SLA compliance reporting for dispatch operations",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type policyFlags struct {
	policyFile string
	schemaFile string
}

func (pf *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.policyFile, "policy", "", "SLA policy YAML file (optional)")
	cmd.Flags().StringVar(&pf.schemaFile, "schema", "", "JSON schema for policy validation")
}

// load resolves the effective SLA parameters and holiday calendar.
func (pf *policyFlags) load() (sla.Params, *calendar.Calendar, error) {
	params := sla.DefaultParams()
	cal := calendar.Colombia()

	if pf.policyFile == "" {
		return params, cal, nil
	}

	schemaPath := pf.schemaFile
	if schemaPath == "" {
		schemaPath = findSchemaFile()
	}
	if schemaPath != "" {
		validator, err := sla.NewValidator(schemaPath)
		if err != nil {
			return params, nil, fmt.Errorf("load schema: %w", err)
		}
		if errs := validator.ValidateFile(pf.policyFile); len(errs) > 0 {
			return params, nil, fmt.Errorf("policy validation failed: %s", errs[0].Error())
		}
	}

	file, err := sla.LoadPolicyFile(pf.policyFile)
	if err != nil {
		return params, nil, err
	}

	extra, err := file.HolidayDates()
	if err != nil {
		return params, nil, err
	}

	return file.Params, cal.WithHolidays(extra...), nil
}

func newReportCmd() *cobra.Command {
	var (
		input  string
		pf     policyFlags
		filter report.Filter
		minDev int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Evaluate a CSV dataset and print indicators, aggregates and recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("min-deviation") {
				filter.MinTransitDeviation = &minDev
			}

			params, orders, err := evaluateInput(cmd.Context(), input, &pf)
			if err != nil {
				return err
			}
			orders = filter.Apply(orders)

			printSummary(report.Summarize(orders))
			printAggregates("CITY", report.ByCity(orders))
			printAggregates("CARRIER", report.ByCarrier(orders))
			printAggregates("MONTH", report.ByMonth(orders))
			printFindings(advisor.NewEngine(params).Evaluate(orders))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV dataset to evaluate")
	cmd.MarkFlagRequired("input")
	pf.register(cmd)
	cmd.Flags().StringSliceVar(&filter.Months, "month", nil, "restrict to month keys (YYYY-MM)")
	cmd.Flags().StringSliceVar(&filter.Carriers, "carrier", nil, "restrict to carriers")
	cmd.Flags().StringSliceVar(&filter.Cities, "city", nil, "restrict to cities")
	cmd.Flags().IntVar(&minDev, "min-deviation", 0, "restrict to orders with at least this transit deviation")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var pf policyFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an SLA policy YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pf.policyFile == "" {
				return fmt.Errorf("--policy is required")
			}

			schemaPath := pf.schemaFile
			if schemaPath == "" {
				schemaPath = findSchemaFile()
			}
			if schemaPath == "" {
				return fmt.Errorf("could not find schemas/policy_v1.json; pass --schema")
			}

			validator, err := sla.NewValidator(schemaPath)
			if err != nil {
				return fmt.Errorf("failed to initialize validator: %w", err)
			}

			errors := validator.ValidateFile(pf.policyFile)
			if len(errors) == 0 {
				fmt.Println("✓ policy file is valid")
				return nil
			}

			fmt.Fprintf(os.Stderr, "✗ validation failed with %d error(s):\n", len(errors))
			for _, e := range errors {
				fmt.Fprintln(os.Stderr, e.Error())
			}
			os.Exit(1)
			return nil
		},
	}

	pf.register(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		input     string
		out       string
		aggregate string
		pf        policyFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Evaluate a CSV dataset and write plain tabular output",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orders, err := evaluateInput(cmd.Context(), input, &pf)
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch aggregate {
			case "":
				return report.WriteOrdersCSV(w, orders)
			case "city":
				return report.WriteGroupsCSV(w, "city", report.ByCity(orders))
			case "carrier":
				return report.WriteGroupsCSV(w, "carrier", report.ByCarrier(orders))
			case "month":
				return report.WriteGroupsCSV(w, "month", report.ByMonth(orders))
			default:
				return fmt.Errorf("unknown aggregate %q, expected city, carrier or month", aggregate)
			}
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV dataset to evaluate")
	cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&aggregate, "aggregate", "", "export an aggregate table instead of the evaluated dataset (city|carrier|month)")
	pf.register(cmd)

	return cmd
}

func evaluateInput(ctx context.Context, input string, pf *policyFlags) (sla.Params, []eval.EvaluatedOrder, error) {
	params, cal, err := pf.load()
	if err != nil {
		return params, nil, err
	}

	orders, err := ingest.ReadFile(input)
	if err != nil {
		return params, nil, err
	}

	evaluated, err := eval.NewEvaluator(cal, params).EvaluateAll(ctx, orders)
	if err != nil {
		return params, nil, err
	}
	return params, evaluated, nil
}

func printSummary(s *report.Summary) {
	fmt.Println("== Indicators ==")
	if s == nil {
		fmt.Println("no delivered orders in dataset")
		fmt.Println()
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "delivered orders\t%d\n", s.Total)
	fmt.Fprintf(w, "compliant\t%d (%.1f%%)\n", s.Compliant, s.CompliancePct)
	fmt.Fprintf(w, "non-compliant\t%d\n", s.NonCompliant)
	fmt.Fprintf(w, "pending\t%d\n", s.Pending)
	fmt.Fprintf(w, "dispatch delays\t%d (avg %.1f, max %d days)\n",
		s.DispatchDeviated, s.AvgDispatchDeviation, s.MaxDispatchDeviation)
	fmt.Fprintf(w, "transit delays\t%d (avg %.1f, max %d days)\n",
		s.TransitDeviated, s.AvgTransitDeviation, s.MaxTransitDeviation)
	w.Flush()
	fmt.Println()
}

func printAggregates(name string, rows []report.GroupRow) {
	if len(rows) == 0 {
		return
	}

	fmt.Printf("== By %s ==\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "key\ttotal\tcompliant\tnon-compliant\tcompliance\tavg transit dev")
	for _, row := range rows {
		key := row.Key
		if row.Label != "" {
			key = row.Label
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f%%\t%.2f\n",
			key, row.Total, row.Compliant, row.NonCompliant, row.CompliancePct, row.AvgTransitDeviation)
	}
	w.Flush()
	fmt.Println()
}

func printFindings(findings []advisor.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Println("== Recommendations ==")
	for _, f := range findings {
		fmt.Printf("[%s] %s\n    %s\n", f.Severity, f.Title, f.Body)
	}
}

// findSchemaFile looks for the schema file in common locations
func findSchemaFile() string {
	candidates := []string{
		"schemas/policy_v1.json",
		"../schemas/policy_v1.json",
		"../../schemas/policy_v1.json",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
