// Package model defines the core domain records used throughout the application.
package model

import "strings"

// ConstituentType classifies a constituent record.
type ConstituentType string

// Constituent type constants.
const (
	TypePerson  ConstituentType = "Person"
	TypeCompany ConstituentType = "Company"
	TypeUnknown ConstituentType = "Unknown"
)

// Constituent represents a single row of the constituents input.
// Tags holds the raw, unmapped tag strings in cell order.
type Constituent struct {
	PatronID  string
	FirstName string
	LastName  string
	Company   string
	Tags      []string
}

// HasFullName reports whether both name fields carry a value.
func (c *Constituent) HasFullName() bool {
	return strings.TrimSpace(c.FirstName) != "" && strings.TrimSpace(c.LastName) != ""
}

// HasCompany reports whether the company field carries a value.
func (c *Constituent) HasCompany() bool {
	return strings.TrimSpace(c.Company) != ""
}
