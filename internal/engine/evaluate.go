package engine

import (
	"strconv"

	"fsaudit/internal/request"
)

// Evaluate is a pure comparison of desired spec against inspected state.
// Only dimensions with a non-empty spec value are checked, in the fixed
// order existence, mode, owner, group, content — the same order remediation
// applies fixes. A missing file short-circuits to exactly one issue.
func Evaluate(spec request.FileSpec, st State) (bool, []Issue) {
	if !st.Exists {
		return false, []Issue{{Kind: IssueFileMissing}}
	}
	if st.StatErr != nil {
		return false, []Issue{{Kind: IssueStatFailed, Detail: st.StatErr.Error()}}
	}

	var issues []Issue

	if spec.Mode != "" {
		required, err := strconv.ParseUint(spec.Mode, 8, 32)
		if err != nil || uint32(required) != st.Mode {
			// A malformed mode string is reported as a mismatch here; the
			// permissions fix step then fails hard on it.
			issues = append(issues, Issue{
				Kind:     IssueModeMismatch,
				Current:  strconv.FormatUint(uint64(st.Mode), 8),
				Required: spec.Mode,
			})
		}
	}

	// An owner or group may be declared by name or by numeric id; either
	// form of the current identity satisfies it.
	if spec.Owner != "" && spec.Owner != st.Owner && spec.Owner != st.OwnerID {
		issues = append(issues, Issue{
			Kind:     IssueOwnerMismatch,
			Current:  st.Owner,
			Required: spec.Owner,
		})
	}

	if spec.Group != "" && spec.Group != st.Group && spec.Group != st.GroupID {
		issues = append(issues, Issue{
			Kind:     IssueGroupMismatch,
			Current:  st.Group,
			Required: spec.Group,
		})
	}

	switch {
	case st.SourceReadErr != nil:
		issues = append(issues, Issue{Kind: IssueContentSourceRead, Detail: st.SourceReadErr.Error()})
	case st.ContentReadErr != nil:
		issues = append(issues, Issue{Kind: IssueContentRead, Detail: st.ContentReadErr.Error()})
	case st.ContentChecked && !st.ContentMatch:
		issues = append(issues, Issue{Kind: IssueContentMismatch})
	}

	return len(issues) == 0, issues
}
