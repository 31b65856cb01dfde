// Package csvio implements CSV parsing for the three input feeds and CSV
// rendering for the output artifacts.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"patronpipe/internal/common"
	"patronpipe/internal/model"
)

// Accepted timestamp layouts for donation dates. The upstream exports mix
// ISO dates with US-style ones carrying single-digit hours.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// header reads the first record and maps normalized column names to their
// positions. Column matching is case-insensitive and treats spaces as
// underscores, so "Patron ID" and "patron_id" both resolve.
type header map[string]int

func readHeader(r *csv.Reader, input string, required []string) (header, error) {
	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: cannot read header: %v", common.ErrStructural, input, err)
	}

	h := make(header, len(record))
	for i, name := range record {
		h[normalizeColumn(name)] = i
	}

	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w: %s: %s", common.ErrMissingColumn, input, col)
		}
	}

	return h, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.ReplaceAll(name, " ", "_")
}

func (h header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// LoadConstituents parses the constituents input, preserving row order.
func LoadConstituents(reader io.Reader) ([]model.Constituent, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	h, err := readHeader(r, "constituents", []string{"patron_id"})
	if err != nil {
		return nil, err
	}

	var constituents []model.Constituent
	for row := 1; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: constituents row %d: %v", common.ErrStructural, row, err)
		}

		patronID := h.get(record, "patron_id")
		if patronID == "" {
			return nil, fmt.Errorf("%w: constituents row %d: missing patron_id", common.ErrStructural, row)
		}

		constituents = append(constituents, model.Constituent{
			PatronID:  patronID,
			FirstName: h.get(record, "first_name"),
			LastName:  h.get(record, "last_name"),
			Company:   h.get(record, "company"),
			Tags:      splitTags(h.get(record, "tags")),
		})
	}

	return constituents, nil
}

// LoadDonations parses the donation history input. The refund marker is
// taken from a boolean "refunded" column when present, otherwise from a
// "status" column where anything other than "Paid" counts as refunded.
func LoadDonations(reader io.Reader) ([]model.Donation, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	h, err := readHeader(r, "donations", []string{"patron_id", "amount"})
	if err != nil {
		return nil, err
	}
	if _, hasRefunded := h["refunded"]; !hasRefunded {
		if _, hasStatus := h["status"]; !hasStatus {
			return nil, fmt.Errorf("%w: donations: refunded (or status)", common.ErrMissingColumn)
		}
	}

	var donations []model.Donation
	for row := 1; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: donations row %d: %v", common.ErrStructural, row, err)
		}

		patronID := h.get(record, "patron_id")
		if patronID == "" {
			return nil, fmt.Errorf("%w: donations row %d: missing patron_id", common.ErrStructural, row)
		}

		amount, err := parseAmount(h.get(record, "amount"))
		if err != nil {
			return nil, fmt.Errorf("%w: donations row %d: %v", common.ErrStructural, row, err)
		}

		date, err := parseDate(h.get(record, "date"))
		if err != nil {
			return nil, fmt.Errorf("%w: donations row %d: %v", common.ErrStructural, row, err)
		}

		refunded, err := parseRefunded(h.get(record, "refunded"), h.get(record, "status"))
		if err != nil {
			return nil, fmt.Errorf("%w: donations row %d: %v", common.ErrStructural, row, err)
		}

		donations = append(donations, model.Donation{
			PatronID: patronID,
			Amount:   amount,
			Date:     date,
			Refunded: refunded,
		})
	}

	return donations, nil
}

// LoadEmails parses the emails input. Addresses are not validated here;
// syntax checking belongs to the validator.
func LoadEmails(reader io.Reader) ([]model.Email, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	h, err := readHeader(r, "emails", []string{"patron_id"})
	if err != nil {
		return nil, err
	}
	if _, hasAddress := h["address"]; !hasAddress {
		if _, hasEmail := h["email"]; !hasEmail {
			return nil, fmt.Errorf("%w: emails: address (or email)", common.ErrMissingColumn)
		}
	}

	var emails []model.Email
	for row := 1; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: emails row %d: %v", common.ErrStructural, row, err)
		}

		patronID := h.get(record, "patron_id")
		if patronID == "" {
			return nil, fmt.Errorf("%w: emails row %d: missing patron_id", common.ErrStructural, row)
		}

		address := h.get(record, "address")
		if address == "" {
			address = h.get(record, "email")
		}

		emails = append(emails, model.Email{PatronID: patronID, Address: address})
	}

	return emails, nil
}

func splitTags(cell string) []string {
	if cell == "" {
		return nil
	}

	var tags []string
	for _, raw := range strings.Split(cell, ",") {
		if tag := strings.TrimSpace(raw); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseAmount accepts plain decimals and currency-formatted strings such
// as "$1,234.56".
func parseAmount(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("missing amount")
	}

	cleaned := strings.ReplaceAll(value, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	return amount, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseRefunded(refunded, status string) (bool, error) {
	if refunded != "" {
		switch strings.ToLower(refunded) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		default:
			return false, fmt.Errorf("invalid refunded value %q", refunded)
		}
	}

	// Status-style feeds: only "Paid" rows count toward totals.
	if status == "" {
		return false, nil
	}
	return !strings.EqualFold(status, "Paid"), nil
}
