package cli

import (
	"github.com/spf13/cobra"

	"recfolio/internal/extract"
	"recfolio/internal/validate"
)

func newExtractCmd(app *App) *cobra.Command {
	var (
		pdfPath      string
		csvPath      string
		noValidate   bool
		writeRejects bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract recommendations from the newsletter PDF into a CSV",
		Long: `Extract parses the recommendations table out of the newsletter PDF,
validates each symbol against Yahoo Finance, and rewrites the output CSV in
full. Malformed rows and unresolvable symbols are skipped and reported in
the end-of-stage summary; only I/O failures abort the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if pdfPath == "" {
				pdfPath = app.Config.Files.PDFPath
			}
			if csvPath == "" {
				csvPath = app.Config.Files.CSVPath
			}

			var validator validate.Validator
			if app.Config.Validator.Enabled && !noValidate {
				validator = validate.NewYahooValidator(app.Config.Validator, app.Logger)
			}

			extractor := extract.New(validator, writeRejects, app.Logger)
			summary, err := extractor.Extract(cmd.Context(), pdfPath, csvPath)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"pages":        summary.Pages,
					"records":      len(summary.Records),
					"parse_errors": len(summary.ParseErrors),
					"rejected":     len(summary.Rejected),
					"output":       csvPath,
				})
			}

			output.Bold("Extraction summary")
			output.Printf("  Pages scanned:  %d\n", summary.Pages)
			output.Printf("  Records kept:   %d\n", len(summary.Records))
			output.Printf("  Output:         %s\n", csvPath)
			if len(summary.ParseErrors) > 0 {
				output.Warning("  Malformed rows skipped: %d", len(summary.ParseErrors))
				for _, rowErr := range summary.ParseErrors {
					output.Dim("    %s", rowErr.Error())
				}
			}
			if len(summary.Rejected) > 0 {
				output.Warning("  Unresolved symbols dropped: %d", len(summary.Rejected))
				for _, ve := range summary.Rejected {
					output.Dim("    %s (%s)", ve.Symbol, ve.Name)
				}
			}
			if len(summary.ParseErrors) == 0 && len(summary.Rejected) == 0 {
				output.Success("  All rows extracted cleanly")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "newsletter PDF to read (default from config)")
	cmd.Flags().StringVar(&csvPath, "out", "", "CSV file to write (default from config)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip symbol validation")
	cmd.Flags().BoolVar(&writeRejects, "rejects", false, "write dropped records to a .rejected.csv sidecar")

	return cmd
}
