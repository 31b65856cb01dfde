package csvio

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"patronpipe/internal/model"
)

// Artifact file names inside the output bundle.
const (
	ConstituentsFileName = "patronpipe_constituents.csv"
	TagCountsFileName    = "patronpipe_tag_counts.csv"
	ErrorsFileName       = "patronpipe_errors.csv"
)

var outputColumns = []string{
	"patron_id",
	"constituent_type",
	"lifetime_donation_total",
	"most_recent_donation_date",
	"tags",
	"primary_email",
	"secondary_email",
	"created_at",
}

// dollars renders amounts with thousands grouping, e.g. "$1,234.56".
var dollars = message.NewPrinter(language.English)

// WriteConstituents renders the normalized constituent table as CSV.
func WriteConstituents(w io.Writer, rows []model.OutputRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outputColumns); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, row := range rows {
		mostRecent := ""
		if row.MostRecentDonationDate != nil {
			mostRecent = row.MostRecentDonationDate.Format(model.TimestampFormat)
		}

		record := []string{
			row.PatronID,
			string(row.ConstituentType),
			dollars.Sprintf("$%.2f", row.LifetimeDonationTotal),
			mostRecent,
			strings.Join(row.Tags, ", "),
			row.PrimaryEmail,
			row.SecondaryEmail,
			row.CreatedAt.Format(model.TimestampFormat),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTagCounts renders the tag count companion table as CSV.
func WriteTagCounts(w io.Writer, counts []model.TagCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tag_name", "tag_count"}); err != nil {
		return fmt.Errorf("failed to write tag count header: %w", err)
	}

	for _, tc := range counts {
		if err := cw.Write([]string{tc.TagName, fmt.Sprintf("%d", tc.Count)}); err != nil {
			return fmt.Errorf("failed to write tag count row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteErrors renders the error report as CSV. An empty report still gets
// a header row so the artifact is always present and parseable.
func WriteErrors(w io.Writer, records []model.ErrorRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "patron_id", "detail"}); err != nil {
		return fmt.Errorf("failed to write error report header: %w", err)
	}

	for _, rec := range records {
		if err := cw.Write([]string{string(rec.Category), rec.PatronID, rec.Detail}); err != nil {
			return fmt.Errorf("failed to write error report row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteBundle packages the three artifacts into a single zip stream.
// A failed run carries no rows or tag counts; the bundle then holds only
// the error report.
func WriteBundle(w io.Writer, rows []model.OutputRow, counts []model.TagCount, report model.Report) error {
	zw := zip.NewWriter(w)

	if !report.HasFatal {
		f, err := zw.Create(ConstituentsFileName)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", ConstituentsFileName, err)
		}
		if err := WriteConstituents(f, rows); err != nil {
			return err
		}

		f, err = zw.Create(TagCountsFileName)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", TagCountsFileName, err)
		}
		if err := WriteTagCounts(f, counts); err != nil {
			return err
		}
	}

	f, err := zw.Create(ErrorsFileName)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ErrorsFileName, err)
	}
	if err := WriteErrors(f, report.Records); err != nil {
		return err
	}

	return zw.Close()
}
