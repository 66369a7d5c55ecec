package domain

import (
	"fmt"
	"strings"
)

// IssueKind classifies an integrity finding.
type IssueKind string

// Integrity findings.
const (
	IssueMissingPayload IssueKind = "missing_payload"
	IssueExtraPayload   IssueKind = "extra_payload"
	IssueOrphanPayload  IssueKind = "orphan_payload"
	IssueDoubleEvent    IssueKind = "double_event"
	IssueOrphanLink     IssueKind = "orphan_link"
	IssueRoleMismatch   IssueKind = "role_mismatch"
	IssueHierarchyCycle IssueKind = "hierarchy_cycle"
	IssueChunkSequence  IssueKind = "chunk_sequence"
	IssueChunkOffsets   IssueKind = "chunk_offsets"
	IssueSetDates       IssueKind = "document_set_dates"
	IssueUnknownKind    IssueKind = "unknown_discriminator"
)

// IntegrityIssue is one inconsistency found by a scan.
type IntegrityIssue struct {
	Kind   IssueKind
	Table  string
	ID     string
	Detail string
}

// String returns a one-line description.
func (i IntegrityIssue) String() string {
	return fmt.Sprintf("%s %s[%s]: %s", i.Kind, i.Table, i.ID, i.Detail)
}

// IntegrityReport collects the findings of a scan.
type IntegrityReport struct {
	Issues []IntegrityIssue
}

// OK reports whether the scan found nothing.
func (r *IntegrityReport) OK() bool {
	return len(r.Issues) == 0
}

// Err returns nil for a clean report, otherwise an error wrapping
// ErrIntegrityCorruption that lists the findings.
func (r *IntegrityReport) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	return fmt.Errorf("%d issue(s): %s: %w", len(r.Issues), strings.Join(lines, "; "), ErrIntegrityCorruption)
}
