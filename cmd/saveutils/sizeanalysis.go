package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/engine/sizeanalysis"
)

// reportFile is written by --report in the working directory.
const reportFile = "report.txt"

var (
	sizeCutoff float64
	sizeHTML   string
	sizeReport bool
)

var sizeAnalysisCmd = &cobra.Command{
	Use:     "sizeanalysis",
	Aliases: []string{"size"},
	Short:   "Report how many bytes each top-level key takes",
	Args:    cobra.NoArgs,
	RunE:    runSizeAnalysis,
}

func runSizeAnalysis(cmd *cobra.Command, args []string) error {
	cutoff := cfg.SizeCutoff
	if cmd.Flags().Changed("cutoff") {
		cutoff = sizeCutoff
	}
	if cutoff < 0 {
		return fmt.Errorf("cutoff must not be negative, got %v", cutoff)
	}

	analysis, err := sizeanalysis.Analyze(save, sizeanalysis.Options{RawSizeFactor: cfg.RawSizeFactor})
	if err != nil {
		return err
	}
	rows := analysis.Aggregate(cutoff)
	sizeanalysis.Log(rows)

	wrote := false
	if sizeHTML != "" {
		if err := writeFile(sizeHTML, func(f *os.File) error { return sizeanalysis.WriteHTML(f, rows) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", sizeHTML)
		wrote = true
	}
	if sizeReport {
		if err := writeFile(reportFile, func(f *os.File) error {
			_, err := f.WriteString(sizeanalysis.RenderText(rows, analysis.Total, cfg.Locale))
			return err
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", reportFile)
		wrote = true
	}
	if !wrote {
		return sizeanalysis.WriteReport(cmd.OutOrStdout(), rows, analysis.Total)
	}
	return nil
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	sizeAnalysisCmd.Flags().Float64Var(&sizeCutoff, "cutoff", 0, "Fold keys under this percentage into one row (default from SAVEUTILS_SIZE_CUTOFF)")
	sizeAnalysisCmd.Flags().StringVar(&sizeHTML, "html", "", "Write an HTML table to this file")
	sizeAnalysisCmd.Flags().BoolVarP(&sizeReport, "report", "r", false, "Write a text table to "+reportFile)
	rootCmd.AddCommand(sizeAnalysisCmd)
}
