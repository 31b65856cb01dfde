package model

// Email represents a single row of the emails input. A patron may appear
// any number of times; input order decides primary/secondary selection.
type Email struct {
	PatronID string
	Address  string
}
