package engine

import (
	"fsaudit/internal/request"
)

// Status values for a completed run. These are data-level outcomes: every
// completed run exits zero regardless of which one it reports.
const (
	StatusSuccess      = "success"
	StatusNonCompliant = "non_compliant"
	StatusPartial      = "partial_failure"
)

// FileResult is the per-file outcome. Fixes and Err are mutually exclusive:
// a failed step drops the fix list in favor of the error.
type FileResult struct {
	Path      string
	Compliant bool
	Issues    []Issue
	Fixes     []Fix
	Err       *FixError
}

// Response is the aggregated outcome of one run.
type Response struct {
	Status           string
	FilesChecked     int
	FilesFixed       int
	ComplianceIssues []string
	Details          []FileResult
}

// Driver runs the evaluate/remediate sequence over a normalized request,
// strictly in order and single-threaded. Duplicate paths are processed
// independently; the last writer wins.
type Driver struct {
	inspector  *Inspector
	remediator *Remediator
}

// NewDriver wires an inspector and remediator together.
func NewDriver(inspector *Inspector, remediator *Remediator) *Driver {
	return &Driver{inspector: inspector, remediator: remediator}
}

// Run processes every entry of the request and aggregates one response.
// Entries with an empty path are skipped and not counted. Per-file failures
// never abort the run: they become result data.
func (d *Driver) Run(req *request.Request) *Response {
	resp := &Response{ComplianceIssues: []string{}}

	anyUnresolved := false
	anyFixFailed := false

	for _, spec := range req.Files {
		if spec.Path == "" {
			continue
		}
		resp.FilesChecked++

		state := d.inspector.Inspect(spec)
		compliant, issues := Evaluate(spec, state)

		result := FileResult{Path: spec.Path, Compliant: compliant, Issues: issues}
		if compliant {
			resp.Details = append(resp.Details, result)
			continue
		}

		// The aggregate reflects what was found, even for files fixed below.
		for _, issue := range issues {
			resp.ComplianceIssues = append(resp.ComplianceIssues, issue.String())
		}

		if req.CheckOnly {
			anyUnresolved = true
			resp.Details = append(resp.Details, result)
			continue
		}

		fixes, ferr := d.remediator.Apply(spec, issues)
		if ferr != nil {
			anyFixFailed = true
			result.Err = ferr
			resp.Details = append(resp.Details, result)
			continue
		}

		if len(fixes) > 0 {
			resp.FilesFixed++
		}
		if !allFixable(issues) {
			// Stat/read failures have no corrective step; the entry stays
			// unresolved even when other fixes landed.
			anyUnresolved = true
		}
		result.Fixes = fixes
		resp.Details = append(resp.Details, result)
	}

	switch {
	case anyFixFailed:
		resp.Status = StatusPartial
	case anyUnresolved:
		resp.Status = StatusNonCompliant
	default:
		resp.Status = StatusSuccess
	}
	return resp
}

func allFixable(issues []Issue) bool {
	for _, i := range issues {
		if !i.Fixable() {
			return false
		}
	}
	return true
}
