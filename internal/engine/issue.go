// Package engine audits filesystem paths against declared desired state and
// applies ordered, idempotent remediation. It is the one-shot core behind
// the CLI: inspect, evaluate, fix, aggregate.
package engine

import "fmt"

// IssueKind enumerates the detected deviations from a file spec.
type IssueKind int

const (
	IssueFileMissing IssueKind = iota
	IssueModeMismatch
	IssueOwnerMismatch
	IssueGroupMismatch
	IssueContentMismatch
	IssueStatFailed
	IssueContentSourceRead
	IssueContentRead
)

// Issue is one detected deviation. Current/Required carry the mismatch
// operands; Detail carries the OS error text for the *_read/stat variants.
type Issue struct {
	Kind     IssueKind
	Current  string
	Required string
	Detail   string
}

// String renders the wire form of the issue.
func (i Issue) String() string {
	switch i.Kind {
	case IssueFileMissing:
		return "file_missing"
	case IssueModeMismatch:
		return fmt.Sprintf("mode_mismatch: current=%s, required=%s", i.Current, i.Required)
	case IssueOwnerMismatch:
		return fmt.Sprintf("owner_mismatch: current=%s, required=%s", i.Current, i.Required)
	case IssueGroupMismatch:
		return fmt.Sprintf("group_mismatch: current=%s, required=%s", i.Current, i.Required)
	case IssueContentMismatch:
		return "content_mismatch"
	case IssueStatFailed:
		return "stat_failed: " + i.Detail
	case IssueContentSourceRead:
		return "content_source_read_error: " + i.Detail
	case IssueContentRead:
		return "content_read_error: " + i.Detail
	default:
		return "unknown_issue"
	}
}

// Fixable reports whether remediation has a corrective step for the issue.
// Stat and read failures are check errors: they can only be reported.
func (i Issue) Fixable() bool {
	switch i.Kind {
	case IssueFileMissing, IssueModeMismatch, IssueOwnerMismatch, IssueGroupMismatch, IssueContentMismatch:
		return true
	default:
		return false
	}
}

// Fix enumerates the remediation actions that can be applied to a file.
type Fix int

const (
	FixCreatedFile Fix = iota
	FixWroteContent
	FixFixedContent
	FixFixedPermissions
	FixFixedOwner
	FixFixedGroup
)

// String renders the wire form of the fix.
func (f Fix) String() string {
	switch f {
	case FixCreatedFile:
		return "created_file"
	case FixWroteContent:
		return "wrote_content"
	case FixFixedContent:
		return "fixed_content"
	case FixFixedPermissions:
		return "fixed_permissions"
	case FixFixedOwner:
		return "fixed_owner"
	case FixFixedGroup:
		return "fixed_group"
	default:
		return "unknown_fix"
	}
}

// FixError is a failed remediation step, recorded on the file's result.
type FixError struct {
	Type    string
	Message string
}

func (e *FixError) Error() string {
	return e.Type + ": " + e.Message
}
