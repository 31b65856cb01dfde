package model

// ErrorCategory classifies a validation or assembly problem.
type ErrorCategory string

// Error category constants. Fatal categories abort the run before any
// output is assembled; warning categories are logged and passed through.
const (
	CategoryInvalidEmail        ErrorCategory = "InvalidEmail"
	CategoryDuplicatePatronID   ErrorCategory = "DuplicatePatronId"
	CategoryNonPositiveDonation ErrorCategory = "NonPositiveDonation"
	CategoryOtherStructural     ErrorCategory = "OtherStructural"
)

// ErrorRecord is one entry of the run's error report. PatronID is empty
// when the problem is not attributable to a single patron.
type ErrorRecord struct {
	Category ErrorCategory
	PatronID string
	Detail   string
}

// Report collects every ErrorRecord raised during a run, in the order the
// checks produced them.
type Report struct {
	Records  []ErrorRecord
	HasFatal bool
}

// Add appends a warning record.
func (r *Report) Add(category ErrorCategory, patronID, detail string) {
	r.Records = append(r.Records, ErrorRecord{Category: category, PatronID: patronID, Detail: detail})
}

// AddFatal appends a record and marks the run as failed.
func (r *Report) AddFatal(category ErrorCategory, patronID, detail string) {
	r.Add(category, patronID, detail)
	r.HasFatal = true
}
