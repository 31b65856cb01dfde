package etl

import (
	"net/mail"
	"strings"

	"patronpipe/internal/model"
)

// emailPick is the resolved primary/secondary address pair for a patron.
// Empty strings mean no usable address.
type emailPick struct {
	primary   string
	secondary string
}

// ValidAddress reports whether an address passes the standard syntax
// check. On top of RFC 5322 parsing it requires a bare address (no display
// name) and a dotted domain, which rejects entries like "bad-email" or
// "amy@localhost" that no CRM import would accept.
func ValidAddress(address string) bool {
	if address == "" {
		return false
	}

	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return false
	}

	at := strings.LastIndex(parsed.Address, "@")
	domain := parsed.Address[at+1:]
	return strings.Contains(domain, ".")
}

// resolveEmails selects primary and secondary addresses per patron from
// the validator-approved candidates. No priority field exists in the
// source data, so first-in-input-order is the documented tie-break; the
// secondary is the first valid address distinct from the primary.
func resolveEmails(emails []model.Email, validEmail []bool) map[string]emailPick {
	picks := make(map[string]emailPick)

	for i, e := range emails {
		if !validEmail[i] {
			continue
		}

		pick := picks[e.PatronID]
		switch {
		case pick.primary == "":
			pick.primary = e.Address
		case pick.secondary == "" && e.Address != pick.primary:
			pick.secondary = e.Address
		default:
			continue
		}
		picks[e.PatronID] = pick
	}

	return picks
}
