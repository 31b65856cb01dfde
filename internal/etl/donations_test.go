package etl

import (
	"testing"
	"time"

	"patronpipe/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAggregateDonations(t *testing.T) {
	donations := []model.Donation{
		{PatronID: "1", Amount: 50, Date: date("2023-01-10")},
		{PatronID: "1", Amount: 25, Date: date("2023-06-01")},
		{PatronID: "1", Amount: 100, Date: date("2023-03-15"), Refunded: true},
		{PatronID: "2", Amount: 75, Date: date("2022-12-31"), Refunded: true},
		{PatronID: "3", Amount: 10},
	}

	summaries := aggregateDonations(donations)

	s1, ok := summaries["1"]
	if !ok {
		t.Fatal("expected summary for patron 1")
	}
	if s1.total != 75 {
		t.Errorf("patron 1 total = %v, want 75 (refunded donation must not count)", s1.total)
	}
	if s1.mostRecent == nil || !s1.mostRecent.Equal(date("2023-06-01")) {
		t.Errorf("patron 1 most recent = %v, want 2023-06-01", s1.mostRecent)
	}

	// Entirely refunded: entry exists with zero total and no date.
	s2, ok := summaries["2"]
	if !ok {
		t.Fatal("expected summary for patron 2")
	}
	if s2.total != 0 {
		t.Errorf("patron 2 total = %v, want 0", s2.total)
	}
	if s2.mostRecent != nil {
		t.Errorf("patron 2 most recent = %v, want nil", s2.mostRecent)
	}

	// Countable donation without a date contributes to the total only.
	s3 := summaries["3"]
	if s3.total != 10 || s3.mostRecent != nil {
		t.Errorf("patron 3 summary = %+v, want total 10 and nil date", s3)
	}
}

func TestAggregateDonationsEmpty(t *testing.T) {
	if got := aggregateDonations(nil); len(got) != 0 {
		t.Errorf("expected empty summary map, got %v", got)
	}
}
