package model

import "time"

// TimestampFormat is the fixed rendering for every timestamp in the
// output artifacts.
const TimestampFormat = "2006-01-02 15:04:05"

// OutputRow is one row of the normalized constituent table, keyed by the
// patron identifier of the Constituent row it was assembled from.
type OutputRow struct {
	CreatedAt              time.Time
	MostRecentDonationDate *time.Time
	PatronID               string
	ConstituentType        ConstituentType
	PrimaryEmail           string
	SecondaryEmail         string
	Tags                   []string
	LifetimeDonationTotal  float64
}

// HasTag reports whether the row carries the given canonical tag.
func (r *OutputRow) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
