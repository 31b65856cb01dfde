package etl

import (
	"strings"

	"patronpipe/internal/model"
)

// Classify assigns a constituent type. The function is pure and total:
//
//  1. Both name fields present -> Person, even when a company is also
//     listed (a named individual with an employer is still a person).
//  2. Else, company present and not a known placeholder -> Company.
//  3. Else -> Unknown.
func (p *Pipeline) Classify(c *model.Constituent) model.ConstituentType {
	if c.HasFullName() {
		return model.TypePerson
	}
	if c.HasCompany() && !p.nonCompany[strings.ToLower(strings.TrimSpace(c.Company))] {
		return model.TypeCompany
	}
	return model.TypeUnknown
}
