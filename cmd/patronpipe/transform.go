package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"patronpipe/internal/cli"
	"patronpipe/internal/common"
	"patronpipe/internal/config"
	"patronpipe/internal/csvio"
	"patronpipe/internal/etl"
)

func transformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform the three input files into the normalized dataset",
		Long: `Transform reads the constituents, emails and donation history CSV
exports, runs validation and the transformation pipeline, and writes the
normalized constituent table, the tag count table and the error report.

A fatal validation error (a non-positive, non-refund donation amount)
aborts the run: only the error report is written and the command exits
non-zero.`,
		RunE: runTransform,
	}

	cmd.Flags().StringP("constituents", "c", "", "path to the constituents CSV (required)")
	cmd.Flags().StringP("emails", "e", "", "path to the emails CSV (required)")
	cmd.Flags().StringP("donations", "d", "", "path to the donation history CSV (required)")
	cmd.Flags().StringP("out-dir", "o", ".", "directory to write the output artifacts to")
	cmd.Flags().Bool("zip", false, "write a single zip bundle instead of separate files")

	_ = cmd.MarkFlagRequired("constituents")
	_ = cmd.MarkFlagRequired("emails")
	_ = cmd.MarkFlagRequired("donations")

	// Bind to viper
	_ = viper.BindPFlag("transform.constituents", cmd.Flags().Lookup("constituents"))
	_ = viper.BindPFlag("transform.emails", cmd.Flags().Lookup("emails"))
	_ = viper.BindPFlag("transform.donations", cmd.Flags().Lookup("donations"))
	_ = viper.BindPFlag("transform.out_dir", cmd.Flags().Lookup("out-dir"))
	_ = viper.BindPFlag("transform.zip", cmd.Flags().Lookup("zip"))

	return cmd
}

func runTransform(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rules, err := config.LoadRules()
	if err != nil {
		return common.NewUserError("could not load rule configuration", err)
	}

	pipeline := etl.New(etl.Config{
		TagMapping:       rules.TagMapping,
		NonCompanyValues: rules.NonCompanyValues,
	})

	slog.Info(cli.FormatTitle("Transforming constituent data"))

	// One step per input file, one for the run, one for the artifacts.
	bar := progressbar.NewOptions(5,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Loading inputs..."),
	)

	in := etl.Inputs{}
	if in.Constituents, err = loadFile(viper.GetString("transform.constituents"), csvio.LoadConstituents); err != nil {
		return err
	}
	_ = bar.Add(1)
	if in.Emails, err = loadFile(viper.GetString("transform.emails"), csvio.LoadEmails); err != nil {
		return err
	}
	_ = bar.Add(1)
	if in.Donations, err = loadFile(viper.GetString("transform.donations"), csvio.LoadDonations); err != nil {
		return err
	}
	_ = bar.Add(1)

	bar.Describe("Running pipeline...")
	result, err := pipeline.Run(ctx, in)
	if err != nil {
		return fmt.Errorf("run canceled: %w", err)
	}
	_ = bar.Add(1)

	bar.Describe("Writing artifacts...")
	outDir := viper.GetString("transform.out_dir")
	if err := writeArtifacts(outDir, viper.GetBool("transform.zip"), result); err != nil {
		return err
	}
	_ = bar.Add(1)
	fmt.Fprintln(os.Stderr)

	for _, rec := range result.Report.Records {
		common.LogWarn("Validation finding", common.Fields{
			"category":  rec.Category,
			"patron_id": rec.PatronID,
			"detail":    rec.Detail,
		})
	}

	if result.Failed() {
		slog.Error(cli.FormatError("Run aborted by fatal validation; no output rows written"))
		return common.NewUserError("input contains corrupted donation amounts", common.ErrFatalValidation)
	}

	displayRunSummary(result)
	slog.Info(cli.FormatSuccess(fmt.Sprintf("Wrote %d output rows (%d warnings)",
		len(result.Rows), len(result.Report.Records))))

	return nil
}

func displayRunSummary(result *etl.Result) {
	types := make(map[string]int)
	for _, row := range result.Rows {
		types[string(row.ConstituentType)]++
	}

	content := fmt.Sprintf(`Output rows: %d
Persons: %d
Companies: %d
Unknown: %d
Canonical tags: %d
Warnings: %d
`, len(result.Rows), types["Person"], types["Company"], types["Unknown"],
		len(result.TagCounts), len(result.Report.Records))

	if len(result.Report.Records) > 0 {
		content += "\n" + cli.FormatWarning("Review the error report before importing")
	}

	slog.Info(cli.RenderBox("Run Summary", content))
}

func loadFile[T any](path string, load func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func writeArtifacts(outDir string, asZip bool, result *etl.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if asZip {
		return writeTo(filepath.Join(outDir, "patronpipe_output.zip"), func(f *os.File) error {
			return csvio.WriteBundle(f, result.Rows, result.TagCounts, result.Report)
		})
	}

	if !result.Failed() {
		if err := writeTo(filepath.Join(outDir, csvio.ConstituentsFileName), func(f *os.File) error {
			return csvio.WriteConstituents(f, result.Rows)
		}); err != nil {
			return err
		}
		if err := writeTo(filepath.Join(outDir, csvio.TagCountsFileName), func(f *os.File) error {
			return csvio.WriteTagCounts(f, result.TagCounts)
		}); err != nil {
			return err
		}
	}

	return writeTo(filepath.Join(outDir, csvio.ErrorsFileName), func(f *os.File) error {
		return csvio.WriteErrors(f, result.Report.Records)
	})
}

func writeTo(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
