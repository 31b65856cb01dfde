// Package etl implements the transformation and validation engine that
// turns the three raw input feeds into the normalized constituent dataset.
package etl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"patronpipe/internal/model"
)

// Inputs is the complete, memory-resident snapshot a run operates on.
type Inputs struct {
	Constituents []model.Constituent
	Donations    []model.Donation
	Emails       []model.Email
}

// Result is the complete output snapshot of a run. Rows and TagCounts are
// empty when the report carries a fatal error; the report itself is always
// populated, possibly with zero records.
type Result struct {
	StartedAt time.Time
	Rows      []model.OutputRow
	TagCounts []model.TagCount
	Report    model.Report
}

// Failed reports whether the run was aborted by fatal validation.
func (r *Result) Failed() bool {
	return r.Report.HasFatal
}

// Config holds the externally loaded rule tables for a pipeline.
type Config struct {
	// Now supplies the run's wall-clock start; defaults to time.Now.
	Now              func() time.Time
	TagMapping       model.TagMapping
	NonCompanyValues []string
}

// Pipeline runs the synchronous Load -> Validate -> transform -> Assemble
// sequence. A pipeline is immutable after construction and safe to reuse
// across runs; each run owns its own record sequences and report.
type Pipeline struct {
	now        func() time.Time
	mapping    model.TagMapping
	nonCompany map[string]bool
}

// New creates a pipeline with the given rule tables.
func New(cfg Config) *Pipeline {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	nonCompany := make(map[string]bool, len(cfg.NonCompanyValues))
	for _, v := range cfg.NonCompanyValues {
		nonCompany[strings.ToLower(strings.TrimSpace(v))] = true
	}

	mapping := cfg.TagMapping
	if mapping == nil {
		mapping = model.TagMapping{}
	}

	return &Pipeline{
		now:        now,
		mapping:    mapping,
		nonCompany: nonCompany,
	}
}

// Run executes the pipeline over one input snapshot. Fatal validation
// aborts before any aggregation or assembly work; the returned Result then
// carries only the error report. Run returns a non-nil error only for
// context cancellation; data problems surface through the report.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Result, error) {
	result := &Result{StartedAt: p.now()}

	v := p.validate(in)
	result.Report = v.report

	if result.Report.HasFatal {
		slog.Error("Fatal validation error, aborting run",
			"errors", len(result.Report.Records))
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, counts, assemblyErrs := p.assemble(in, v, result.StartedAt)
	result.Rows = rows
	result.TagCounts = counts
	result.Report.Records = append(result.Report.Records, assemblyErrs...)

	slog.Info("Pipeline run complete",
		"rows", len(result.Rows),
		"tags", len(result.TagCounts),
		"warnings", len(result.Report.Records))

	return result, nil
}
