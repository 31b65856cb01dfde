package etl

import (
	"fmt"

	"patronpipe/internal/model"
)

// validation carries the validator's outcome into the later stages.
// validEmail is parallel to Inputs.Emails: only addresses passing the
// syntax check are resolution candidates.
type validation struct {
	report     model.Report
	validEmail []bool
}

// validate scans the loaded records and classifies problems into fatal
// (abort the run) versus warning (logged, run continues). Record order is
// deterministic: non-positive donations in donation input order, invalid
// emails in email input order, duplicate patron ids in constituent input
// order.
func (p *Pipeline) validate(in Inputs) validation {
	v := validation{
		validEmail: make([]bool, len(in.Emails)),
	}

	// A non-positive amount on a row that is not itself a refund marker
	// signals upstream corruption; aggregation cannot be trusted.
	for _, d := range in.Donations {
		if d.Amount <= 0 && !d.Refunded {
			v.report.AddFatal(model.CategoryNonPositiveDonation, d.PatronID,
				fmt.Sprintf("non-positive donation amount %.2f", d.Amount))
		}
	}

	for i, e := range in.Emails {
		if ValidAddress(e.Address) {
			v.validEmail[i] = true
			continue
		}
		v.report.Add(model.CategoryInvalidEmail, e.PatronID,
			fmt.Sprintf("invalid email address %q", e.Address))
	}

	// Duplicate patron ids are logged but all copies pass through;
	// resolution belongs to the human reviewer, not this pipeline.
	seen := make(map[string]int, len(in.Constituents))
	for _, c := range in.Constituents {
		seen[c.PatronID]++
	}
	reported := make(map[string]bool)
	for _, c := range in.Constituents {
		if seen[c.PatronID] > 1 && !reported[c.PatronID] {
			reported[c.PatronID] = true
			v.report.Add(model.CategoryDuplicatePatronID, c.PatronID,
				fmt.Sprintf("patron_id appears %d times in constituents input", seen[c.PatronID]))
		}
	}

	return v
}
