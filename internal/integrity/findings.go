package integrity

import "time"

// Severity grades a finding. Warnings are suspicious but harmless; errors
// break an invariant the engine promises.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// FindingKind names the check that produced a finding.
type FindingKind string

const (
	KindDuplicateName FindingKind = "duplicate_name"
	KindOrphaned      FindingKind = "orphaned"
	KindMalformedURL  FindingKind = "malformed_url"
	KindForeignURL    FindingKind = "foreign_domain_url"
	KindURLMismatch   FindingKind = "url_mismatch"
	KindNumberingGap  FindingKind = "numbering_gap"
)

// Finding is one detected inconsistency. The validator only reports;
// nothing is fixed or deleted on its behalf.
type Finding struct {
	EntityKind string      `json:"entity_kind"`
	EntityID   string      `json:"entity_id"`
	Kind       FindingKind `json:"kind"`
	Severity   Severity    `json:"severity"`
	Detail     string      `json:"detail"`
}

// Report is the outcome of one full validator pass.
type Report struct {
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Counts     map[FindingKind]int `json:"counts"`
	Findings   []Finding           `json:"findings"`
}

func newReport(startedAt time.Time, findings []Finding) *Report {
	report := &Report{
		StartedAt: startedAt,
		Counts:    map[FindingKind]int{},
		Findings:  findings,
	}
	for _, finding := range findings {
		report.Counts[finding.Kind]++
	}
	return report
}
