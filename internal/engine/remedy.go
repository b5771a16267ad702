package engine

import (
	"errors"
	"io"
	"os"
	"strconv"

	"fsaudit/internal/identity"
	"fsaudit/internal/request"
)

// Step is one typed entry of a remediation plan.
type Step int

const (
	StepCreate Step = iota
	StepContent
	StepPermissions
	StepOwnership
)

// leaveUnchanged is the chown sentinel for an identity that was not
// requested.
const leaveUnchanged = -1

// BuildPlan derives the ordered remediation plan for a file from its issue
// list. The order is fixed — create, content, permissions, ownership — and
// every step is idempotent, so re-running a fully fixed file yields an
// empty plan (the evaluator finds no issues).
func BuildPlan(spec request.FileSpec, issues []Issue) []Step {
	has := func(kind IssueKind) bool {
		for _, i := range issues {
			if i.Kind == kind {
				return true
			}
		}
		return false
	}

	var plan []Step
	created := has(IssueFileMissing)
	if created {
		plan = append(plan, StepCreate)
	}
	if created || has(IssueContentMismatch) {
		plan = append(plan, StepContent)
	}
	// A freshly created file gets its requested mode in the same pass, the
	// way the content step populates it: a missing file short-circuits
	// evaluation to file_missing alone, so no mode_mismatch was flagged.
	if spec.Mode != "" && (created || has(IssueModeMismatch)) {
		plan = append(plan, StepPermissions)
	}
	// Ownership is applied whenever requested, not only on a flagged
	// mismatch. That keeps the step total and idempotent.
	if spec.Owner != "" || spec.Group != "" {
		plan = append(plan, StepOwnership)
	}
	return plan
}

// Remediator executes remediation plans. OS mutations go through injectable
// functions so permission-sensitive paths (chown in particular) are
// testable without privileges.
type Remediator struct {
	ids        *identity.Resolver
	createMode os.FileMode

	stat      func(string) (os.FileInfo, error)
	open      func(string) (io.ReadCloser, error)
	create    func(path string, mode os.FileMode) error
	openWrite func(path string) (io.WriteCloser, error)
	chmod     func(path string, mode os.FileMode) error
	chown     func(path string, uid, gid int) error
}

// NewRemediator builds a remediator using real OS dependencies. Files it
// creates get createMode.
func NewRemediator(ids *identity.Resolver, createMode os.FileMode) *Remediator {
	return &Remediator{
		ids:        ids,
		createMode: createMode,
		stat:       os.Stat,
		open:       func(path string) (io.ReadCloser, error) { return os.Open(path) },
		create: func(path string, mode os.FileMode) error {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
			if err != nil {
				return err
			}
			return f.Close()
		},
		openWrite: func(path string) (io.WriteCloser, error) {
			return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		},
		chmod: os.Chmod,
		chown: os.Chown,
	}
}

// Apply runs the plan derived from the issue list. The first failing step
// aborts the rest; fixes already applied are kept, not rolled back. The
// returned fixes are in application order.
func (r *Remediator) Apply(spec request.FileSpec, issues []Issue) ([]Fix, *FixError) {
	var fixes []Fix
	created := false

	for _, step := range BuildPlan(spec, issues) {
		switch step {
		case StepCreate:
			if err := r.create(spec.Path, r.createMode); err != nil {
				return fixes, &FixError{Type: "create_failed", Message: err.Error()}
			}
			created = true
			fixes = append(fixes, FixCreatedFile)

		case StepContent:
			wrote, ferr := r.writeContent(spec)
			if ferr != nil {
				return fixes, ferr
			}
			if wrote {
				if created {
					fixes = append(fixes, FixWroteContent)
				} else {
					fixes = append(fixes, FixFixedContent)
				}
			}

		case StepPermissions:
			mode, err := strconv.ParseUint(spec.Mode, 8, 32)
			if err != nil {
				return fixes, &FixError{Type: "invalid_mode", Message: "mode " + strconv.Quote(spec.Mode) + " is not octal"}
			}
			if err := r.chmod(spec.Path, os.FileMode(mode)); err != nil {
				return fixes, &FixError{Type: "chmod_failed", Message: err.Error()}
			}
			fixes = append(fixes, FixFixedPermissions)

		case StepOwnership:
			ownFixes, ferr := r.applyOwnership(spec)
			if ferr != nil {
				return fixes, ferr
			}
			fixes = append(fixes, ownFixes...)
		}
	}
	return fixes, nil
}

// writeContent resolves the target bytes with content_source precedence and
// overwrites the file. An empty or absent target writes nothing: a spec
// without a content requirement never assigns a body.
func (r *Remediator) writeContent(spec request.FileSpec) (bool, *FixError) {
	src, present, err := NewContentReader(r.stat, r.open, spec)
	if err != nil {
		return false, &FixError{Type: "content_source_read_failed", Message: err.Error()}
	}
	if !present {
		return false, nil
	}
	defer src.Close()

	dst, err := r.openWrite(spec.Path)
	if err != nil {
		return false, &FixError{Type: "content_write_failed", Message: err.Error()}
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return false, &FixError{Type: "content_write_failed", Message: err.Error()}
	}
	if err := dst.Close(); err != nil {
		return false, &FixError{Type: "content_write_failed", Message: err.Error()}
	}
	return true, nil
}

// applyOwnership resolves the requested identities and applies both halves
// in one chown call, leaving the unrequested half unchanged.
func (r *Remediator) applyOwnership(spec request.FileSpec) ([]Fix, *FixError) {
	uid := leaveUnchanged
	gid := leaveUnchanged

	if spec.Owner != "" {
		id, err := r.ids.UserID(spec.Owner)
		if err != nil {
			if errors.Is(err, identity.ErrUnknown) {
				return nil, &FixError{Type: "unknown_identity", Message: err.Error()}
			}
			return nil, &FixError{Type: "chown_failed", Message: err.Error()}
		}
		uid = id
	}
	if spec.Group != "" {
		id, err := r.ids.GroupID(spec.Group)
		if err != nil {
			if errors.Is(err, identity.ErrUnknown) {
				return nil, &FixError{Type: "unknown_identity", Message: err.Error()}
			}
			return nil, &FixError{Type: "chown_failed", Message: err.Error()}
		}
		gid = id
	}

	if err := r.chown(spec.Path, uid, gid); err != nil {
		return nil, &FixError{Type: "chown_failed", Message: err.Error()}
	}

	var fixes []Fix
	if spec.Owner != "" {
		fixes = append(fixes, FixFixedOwner)
	}
	if spec.Group != "" {
		fixes = append(fixes, FixFixedGroup)
	}
	return fixes, nil
}

// NewRemediatorForTests creates a remediator with injectable OS mutations.
func NewRemediatorForTests(
	ids *identity.Resolver,
	createMode os.FileMode,
	stat func(string) (os.FileInfo, error),
	open func(string) (io.ReadCloser, error),
	create func(string, os.FileMode) error,
	openWrite func(string) (io.WriteCloser, error),
	chmod func(string, os.FileMode) error,
	chown func(string, int, int) error,
) *Remediator {
	return &Remediator{
		ids:        ids,
		createMode: createMode,
		stat:       stat,
		open:       open,
		create:     create,
		openWrite:  openWrite,
		chmod:      chmod,
		chown:      chown,
	}
}
