package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"fsaudit/internal/identity"
	"fsaudit/internal/request"
)

// State is the inspected condition of one path, as far as inspection got.
// When the file is missing or cannot be stat'd nothing else is filled in.
type State struct {
	Exists  bool
	StatErr error

	// Permission bits masked to rwx + setuid/setgid/sticky.
	Mode uint32
	// Resolved names, falling back to numeric ids when unmapped, plus the
	// raw numeric ids so a spec may declare either form.
	Owner   string
	Group   string
	OwnerID string
	GroupID string

	// Content comparison, only performed when the spec carries a content
	// requirement.
	ContentChecked bool
	ContentMatch   bool
	SourceReadErr  error
	ContentReadErr error
}

// Inspector reads the current attributes of a path. OS access goes through
// injectable functions so failure paths are testable.
type Inspector struct {
	ids  *identity.Resolver
	stat func(string) (os.FileInfo, error)
	open func(string) (io.ReadCloser, error)
}

// NewInspector builds an inspector using real OS dependencies.
func NewInspector(ids *identity.Resolver) *Inspector {
	return &Inspector{
		ids:  ids,
		stat: os.Stat,
		open: func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewInspectorForTests creates an inspector with injectable dependencies.
func NewInspectorForTests(
	ids *identity.Resolver,
	stat func(string) (os.FileInfo, error),
	open func(string) (io.ReadCloser, error),
) *Inspector {
	return &Inspector{ids: ids, stat: stat, open: open}
}

// Inspect reads the path's current mode, ownership and, when the spec
// requires content, a digest comparison against the target bytes. A missing
// file short-circuits: no other attribute is meaningful without a file.
func (in *Inspector) Inspect(spec request.FileSpec) State {
	var st State

	info, err := in.stat(spec.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return st
		}
		st.Exists = true
		st.StatErr = err
		return st
	}
	st.Exists = true
	st.Mode = permBits(info.Mode())

	if uid, gid, ok := fileIdentity(info); ok {
		st.Owner = in.ids.UserName(uid)
		st.Group = in.ids.GroupName(gid)
		st.OwnerID = strconv.Itoa(uid)
		st.GroupID = strconv.Itoa(gid)
	}

	in.inspectContent(spec, &st)
	return st
}

// inspectContent compares digests rather than payloads so memory stays
// bounded for large files. content_source wins when its path exists.
func (in *Inspector) inspectContent(spec request.FileSpec, st *State) {
	var targetDigest string

	switch {
	case spec.ContentSource != "":
		_, err := in.stat(spec.ContentSource)
		switch {
		case err == nil:
			targetDigest, err = in.fileDigest(spec.ContentSource)
			if err != nil {
				st.SourceReadErr = err
				return
			}
		case os.IsNotExist(err):
			// Absent source: fall back to the literal content, if any.
			if spec.Content == "" {
				return
			}
			targetDigest = bytesDigest([]byte(spec.Content))
		default:
			st.SourceReadErr = err
			return
		}
	case spec.Content != "":
		targetDigest = bytesDigest([]byte(spec.Content))
	default:
		// No content requirement.
		return
	}

	actual, err := in.fileDigest(spec.Path)
	if err != nil {
		st.ContentReadErr = err
		return
	}
	st.ContentChecked = true
	st.ContentMatch = actual == targetDigest
}

func (in *Inspector) fileDigest(path string) (string, error) {
	f, err := in.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func bytesDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func permBits(m os.FileMode) uint32 {
	bits := uint32(m.Perm())
	if m&os.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if m&os.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if m&os.ModeSticky != 0 {
		bits |= 0o1000
	}
	return bits
}

func fileIdentity(info os.FileInfo) (uid, gid int, ok bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return int(st.Uid), int(st.Gid), true
}

// NewContentReader reads target content with content_source precedence; the
// remediation content step uses it so fixing resolves targets exactly the
// way inspection does.
func NewContentReader(stat func(string) (os.FileInfo, error), open func(string) (io.ReadCloser, error), spec request.FileSpec) (io.ReadCloser, bool, error) {
	if spec.ContentSource != "" {
		_, err := stat(spec.ContentSource)
		if err == nil {
			r, err := open(spec.ContentSource)
			if err != nil {
				return nil, false, err
			}
			return r, true, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, err
		}
	}
	if spec.Content == "" {
		return nil, false, nil
	}
	return io.NopCloser(strings.NewReader(spec.Content)), true, nil
}
