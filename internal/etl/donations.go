package etl

import (
	"time"

	"patronpipe/internal/model"
)

// donationSummary holds per-patron aggregates over non-refunded donations.
// mostRecent is nil when the patron has no countable donation.
type donationSummary struct {
	mostRecent *time.Time
	total      float64
}

// aggregateDonations groups donations by patron and folds each group into
// a lifetime total and most-recent date. Refunded donations were reversed
// and count toward neither figure; a patron whose donations are all
// refunded still gets an entry, with total 0 and no date.
func aggregateDonations(donations []model.Donation) map[string]donationSummary {
	summaries := make(map[string]donationSummary)

	for _, d := range donations {
		s := summaries[d.PatronID]
		if !d.Refunded {
			s.total += d.Amount
			if !d.Date.IsZero() && (s.mostRecent == nil || d.Date.After(*s.mostRecent)) {
				date := d.Date
				s.mostRecent = &date
			}
		}
		summaries[d.PatronID] = s
	}

	return summaries
}
