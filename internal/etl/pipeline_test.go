package etl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patronpipe/internal/config"
	"patronpipe/internal/model"
)

func TestPipeline_Run(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	p := New(Config{
		Now:              func() time.Time { return start },
		TagMapping:       model.TagMapping{"Camp 2016": "Camp 2016 "},
		NonCompanyValues: config.DefaultNonCompanyValues,
	})

	in := Inputs{
		Constituents: []model.Constituent{
			{PatronID: "7", FirstName: "Amy", LastName: "Lee", Company: "Acme",
				Tags: []string{"Camp 2016", "Donor"}},
			{PatronID: "8", Company: "Globex"},
		},
		Donations: []model.Donation{
			{PatronID: "7", Amount: 50, Date: date("2023-04-01")},
			{PatronID: "7", Amount: 20, Date: date("2023-05-01"), Refunded: true},
		},
		Emails: []model.Email{
			{PatronID: "7", Address: "amy@x.com"},
			{PatronID: "7", Address: "bad-email"},
		},
	}

	result, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Len(t, result.Rows, 2)

	amy := result.Rows[0]
	assert.Equal(t, "7", amy.PatronID)
	assert.Equal(t, model.TypePerson, amy.ConstituentType)
	assert.Equal(t, 50.0, amy.LifetimeDonationTotal)
	require.NotNil(t, amy.MostRecentDonationDate)
	assert.Equal(t, date("2023-04-01"), *amy.MostRecentDonationDate)
	assert.Equal(t, []string{"Camp 2016 ", "Donor"}, amy.Tags)
	assert.True(t, amy.HasTag("Camp 2016 "))
	assert.Equal(t, "amy@x.com", amy.PrimaryEmail)
	assert.Empty(t, amy.SecondaryEmail)
	assert.Equal(t, start, amy.CreatedAt)

	globex := result.Rows[1]
	assert.Equal(t, model.TypeCompany, globex.ConstituentType)
	assert.Equal(t, 0.0, globex.LifetimeDonationTotal)
	assert.Nil(t, globex.MostRecentDonationDate)
	assert.Empty(t, globex.PrimaryEmail)

	require.Len(t, result.Report.Records, 1)
	rec := result.Report.Records[0]
	assert.Equal(t, model.CategoryInvalidEmail, rec.Category)
	assert.Equal(t, "7", rec.PatronID)
	assert.Contains(t, rec.Detail, "bad-email")

	require.Len(t, result.TagCounts, 2)
	assert.Equal(t, model.TagCount{TagName: "Camp 2016 ", Count: 1}, result.TagCounts[0])
}

func TestPipeline_RunFatalAbortsBeforeAssembly(t *testing.T) {
	p := testPipeline(nil)

	in := Inputs{
		Constituents: []model.Constituent{{PatronID: "1", FirstName: "A", LastName: "B"}},
		Donations: []model.Donation{
			{PatronID: "1", Amount: 100, Date: date("2023-01-01")},
			{PatronID: "1", Amount: -3, Date: date("2023-02-01")},
		},
	}

	result, err := p.Run(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, result.Failed())
	assert.Empty(t, result.Rows, "fatal validation must produce no output rows")
	assert.Empty(t, result.TagCounts)

	require.Len(t, result.Report.Records, 1)
	assert.Equal(t, model.CategoryNonPositiveDonation, result.Report.Records[0].Category)
	assert.Equal(t, "1", result.Report.Records[0].PatronID)
}

func TestPipeline_RunDuplicateConstituentRowsAllPassThrough(t *testing.T) {
	p := testPipeline(nil)

	in := Inputs{
		Constituents: []model.Constituent{
			{PatronID: "1", FirstName: "A", LastName: "B"},
			{PatronID: "1", Company: "Acme"},
		},
	}

	result, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2, "duplicates are retained, one output row per input row")

	assert.Equal(t, model.TypePerson, result.Rows[0].ConstituentType)
	assert.Equal(t, model.TypeCompany, result.Rows[1].ConstituentType)

	require.Len(t, result.Report.Records, 1)
	assert.Equal(t, model.CategoryDuplicatePatronID, result.Report.Records[0].Category)
}

func TestPipeline_RunUnknownPatronWarnings(t *testing.T) {
	p := testPipeline(nil)

	in := Inputs{
		Constituents: []model.Constituent{{PatronID: "1"}},
		Donations:    []model.Donation{{PatronID: "99", Amount: 10, Date: date("2023-01-01")}},
		Emails:       []model.Email{{PatronID: "42", Address: "ghost@x.com"}},
	}

	result, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1, "unknown patrons never become output rows")

	require.Len(t, result.Report.Records, 2)
	assert.Equal(t, model.CategoryOtherStructural, result.Report.Records[0].Category)
	assert.Equal(t, "99", result.Report.Records[0].PatronID)
	assert.Equal(t, model.CategoryOtherStructural, result.Report.Records[1].Category)
	assert.Equal(t, "42", result.Report.Records[1].PatronID)
}

func TestPipeline_RunCanceledContext(t *testing.T) {
	p := testPipeline(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Inputs{})
	require.ErrorIs(t, err, context.Canceled)
}
