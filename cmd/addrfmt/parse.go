package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/addrfmt/internal/address"
	"github.com/addrfmt/internal/export"
	"github.com/addrfmt/internal/formatter"
	import_pkg "github.com/addrfmt/internal/import"
	"github.com/addrfmt/internal/libpostal"
)

var (
	label  = color.New(color.FgHiBlue).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
)

func createParseCmd() *cobra.Command {
	var id, iban, owner string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse [line...]",
		Short: "Parse one address given as up to six lines",
		Args:  cobra.RangeArgs(1, address.LineCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := buildRaw(id, args, iban, owner)
			if err != nil {
				return err
			}
			parsed := address.ParseDebug(debugFlag, raw)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(parsed)
			}
			printStructured(parsed)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "cli", "Record identifier")
	cmd.Flags().StringVar(&iban, "iban", "", "IBAN passthrough")
	cmd.Flags().StringVar(&owner, "owner", "", "Account owner passthrough")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a field listing")
	return cmd
}

func createParseCSVCmd() *cobra.Command {
	var out string
	var workers int

	cmd := &cobra.Command{
		Use:   "parse-csv [input.csv]",
		Short: "Parse a CSV of id,line1..line6,iban,account_owner rows into a structured CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				dst = f
			}

			writer := export.NewCSVWriter(dst)
			proc := &formatter.Processor{
				Source:  import_pkg.NewFileSource(args[0]),
				Sink:    writer,
				Workers: workers,
			}
			stats, err := proc.Run(cmd.Context(), debugFlag)
			if err != nil {
				return err
			}
			if err := writer.Flush(); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			printStats(stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default stdout)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Parallel workers")
	return cmd
}

func createRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the classifier rules in priority order",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(label("Titles:"), address.TitleWords)
			fmt.Println(label("Postal code:"), address.PostalPattern.String())
			for i, r := range address.LocationRules {
				fmt.Printf("%d. %s  %s\n", i+1, green(r.Name), r.Pattern.String())
			}
			fmt.Println(label("Fallback country:"), address.DefaultCountry)
		},
	}
}

func createCompareCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "compare [line...]",
		Short: "Parse an address and cross-check it against libpostal",
		Args:  cobra.RangeArgs(1, address.LineCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := buildRaw(id, args, "", "")
			if err != nil {
				return err
			}
			parsed := address.ParseDebug(debugFlag, raw)
			printStructured(parsed)

			diffs := libpostal.Compare(parsed, raw)
			if len(diffs) == 0 {
				fmt.Println(green("libpostal agrees"))
				return nil
			}
			fmt.Println(yellow("libpostal disagrees:"))
			for _, d := range diffs {
				fmt.Printf("  %-13s parsed=%q libpostal=%q\n", d.Label, d.Parsed, d.Libpostal)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "cli", "Record identifier")
	return cmd
}

func buildRaw(id string, lines []string, iban, owner string) (address.UnstructuredAddress, error) {
	var opts []address.Option
	if iban != "" {
		opts = append(opts, address.WithIBAN(iban))
	}
	if owner != "" {
		opts = append(opts, address.WithAccountOwner(owner))
	}
	return address.NewUnstructuredAddress(id, lines, opts...)
}

func printStructured(s address.StructuredAddress) {
	show := func(name string, v *string) {
		if v == nil {
			fmt.Printf("  %s %s\n", label(name+":"), yellow("<absent>"))
			return
		}
		fmt.Printf("  %s %s\n", label(name+":"), *v)
	}

	fmt.Printf("%s %s\n", label("id:"), s.ID)
	show("title", s.Title)
	show("name", s.Name)
	show("lastname", s.Lastname)
	show("firstname", s.Firstname)
	show("compl1", s.Compl1)
	show("compl2", s.Compl2)
	switch a := s.Address.(type) {
	case address.PoBox:
		fmt.Printf("  %s %s\n", label("po box:"), a.BoxNumber)
	case address.Street:
		fmt.Printf("  %s %s\n", label("street:"), a.Street)
		fmt.Printf("  %s %s\n", label("house number:"), a.HouseNumber)
	}
	fmt.Printf("  %s %s (%d)\n", label("postal:"), s.Postal, s.Postal.Long())
	fmt.Printf("  %s %s\n", label("city:"), s.City)
	fmt.Printf("  %s %s\n", label("country:"), s.Country)
	show("iban", s.IBAN)
	show("account owner", s.AccountOwner)
}

func printStats(stats *formatter.BatchStats) {
	fmt.Fprintf(os.Stderr, "%s %d/%d formatted in %v\n", green("Done:"),
		stats.ProcessedCount, stats.TotalRecords, stats.ProcessingTime)
	fmt.Fprintf(os.Stderr, "  streets=%d po_boxes=%d without_postal=%d linked=%d\n",
		stats.StreetCount, stats.PoBoxCount, stats.NoPostalCount, stats.LinkedCount)
	if stats.ErrorCount > 0 {
		fmt.Fprintf(os.Stderr, "  %s %d\n", red("errors:"), stats.ErrorCount)
	}
}
