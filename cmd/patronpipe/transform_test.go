package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patronpipe/internal/csvio"
	"patronpipe/internal/etl"
	"patronpipe/internal/model"
)

func sampleResult(fatal bool) *etl.Result {
	result := &etl.Result{StartedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)}
	if fatal {
		result.Report.AddFatal(model.CategoryNonPositiveDonation, "9", "non-positive donation amount -5.00")
		return result
	}

	result.Rows = []model.OutputRow{{
		PatronID:        "7",
		ConstituentType: model.TypePerson,
		Tags:            []string{"Donor"},
		CreatedAt:       result.StartedAt,
	}}
	result.TagCounts = []model.TagCount{{TagName: "Donor", Count: 1}}
	return result
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeArtifacts(dir, false, sampleResult(false)))

	for _, name := range []string{csvio.ConstituentsFileName, csvio.TagCountsFileName, csvio.ErrorsFileName} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}
}

func TestWriteArtifactsFatalRunWritesOnlyErrors(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeArtifacts(dir, false, sampleResult(true)))

	_, err := os.Stat(filepath.Join(dir, csvio.ErrorsFileName))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, csvio.ConstituentsFileName))
	assert.True(t, os.IsNotExist(err), "fatal run must not write the output table")
}

func TestWriteArtifactsZip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeArtifacts(dir, true, sampleResult(false)))

	_, err := os.Stat(filepath.Join(dir, "patronpipe_output.zip"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, csvio.ConstituentsFileName))
	assert.True(t, os.IsNotExist(err), "zip mode writes the bundle only")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := loadFile(filepath.Join(t.TempDir(), "nope.csv"), csvio.LoadConstituents)
	require.Error(t, err)
}
