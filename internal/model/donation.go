package model

import "time"

// Donation represents a single row of the donation history input.
// Refunded donations stay in the record set so the validator can tell a
// legitimate refund from a corrupted amount; the aggregator excludes them.
type Donation struct {
	Date     time.Time
	PatronID string
	Amount   float64
	Refunded bool
}
