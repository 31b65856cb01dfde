package etl

import (
	"sort"
	"time"

	"patronpipe/internal/model"
)

// assemble joins the classifier, aggregator, normalizer and resolver
// outputs into one OutputRow per constituent input row (duplicate patron
// ids included; see the validator). It also produces the tag count
// companion table and OtherStructural warnings for donation or email rows
// referencing patrons absent from the constituents input.
func (p *Pipeline) assemble(in Inputs, v validation, createdAt time.Time) ([]model.OutputRow, []model.TagCount, []model.ErrorRecord) {
	summaries := aggregateDonations(in.Donations)
	picks := resolveEmails(in.Emails, v.validEmail)

	known := make(map[string]bool, len(in.Constituents))
	for _, c := range in.Constituents {
		known[c.PatronID] = true
	}

	rows := make([]model.OutputRow, 0, len(in.Constituents))
	for _, c := range in.Constituents {
		row := model.OutputRow{
			PatronID:        c.PatronID,
			ConstituentType: p.Classify(&c),
			Tags:            p.NormalizeTags(c.Tags),
			CreatedAt:       createdAt,
		}

		if s, ok := summaries[c.PatronID]; ok {
			row.LifetimeDonationTotal = s.total
			row.MostRecentDonationDate = s.mostRecent
		}

		if pick, ok := picks[c.PatronID]; ok {
			row.PrimaryEmail = pick.primary
			row.SecondaryEmail = pick.secondary
		}

		rows = append(rows, row)
	}

	var errs []model.ErrorRecord
	warned := make(map[string]bool)
	for _, d := range in.Donations {
		if !known[d.PatronID] && !warned[d.PatronID] {
			warned[d.PatronID] = true
			errs = append(errs, model.ErrorRecord{
				Category: model.CategoryOtherStructural,
				PatronID: d.PatronID,
				Detail:   "donation references a patron_id absent from constituents",
			})
		}
	}
	for _, e := range in.Emails {
		if !known[e.PatronID] && !warned[e.PatronID] {
			warned[e.PatronID] = true
			errs = append(errs, model.ErrorRecord{
				Category: model.CategoryOtherStructural,
				PatronID: e.PatronID,
				Detail:   "email references a patron_id absent from constituents",
			})
		}
	}

	return rows, countTags(rows), errs
}

// countTags tallies canonical tags across all output rows, sorted by count
// descending with ties broken by first appearance.
func countTags(rows []model.OutputRow) []model.TagCount {
	index := make(map[string]int)
	var counts []model.TagCount

	for _, row := range rows {
		for _, tag := range row.Tags {
			if i, ok := index[tag]; ok {
				counts[i].Count++
				continue
			}
			index[tag] = len(counts)
			counts = append(counts, model.TagCount{TagName: tag, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return counts
}
