package engine

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"fsaudit/internal/request"
)

func TestInspectMissingFile(t *testing.T) {
	in := NewInspector(driverIdentities())
	st := in.Inspect(request.FileSpec{Path: filepath.Join(t.TempDir(), "nope")})
	if st.Exists {
		t.Fatal("reported existing")
	}
	if st.StatErr != nil {
		t.Fatalf("missing is not a stat failure: %v", st.StatErr)
	}
}

func TestInspectModeBits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("x"), 0o640); err != nil {
		t.Fatal(err)
	}
	in := NewInspector(driverIdentities())
	st := in.Inspect(request.FileSpec{Path: path})
	if !st.Exists {
		t.Fatal("file exists")
	}
	if st.Mode != 0o640 {
		t.Fatalf("mode %o", st.Mode)
	}
}

func TestInspectContentDigestComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("expected body"), 0o644); err != nil {
		t.Fatal(err)
	}
	in := NewInspector(driverIdentities())

	match := in.Inspect(request.FileSpec{Path: path, Content: "expected body"})
	if !match.ContentChecked || !match.ContentMatch {
		t.Fatalf("want match, got %+v", match)
	}

	differ := in.Inspect(request.FileSpec{Path: path, Content: "something else"})
	if !differ.ContentChecked || differ.ContentMatch {
		t.Fatalf("want mismatch, got %+v", differ)
	}
}

func TestInspectNoContentRequirementSkipsDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	opened := 0
	in := NewInspectorForTests(driverIdentities(), os.Stat, func(p string) (io.ReadCloser, error) {
		opened++
		return os.Open(p)
	})
	st := in.Inspect(request.FileSpec{Path: path})
	if st.ContentChecked {
		t.Fatal("content checked without a requirement")
	}
	if opened != 0 {
		t.Fatalf("no file should be opened, got %d opens", opened)
	}
}

func TestInspectContentReadErrorIsNotMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	openErr := errors.New("device error")
	in := NewInspectorForTests(driverIdentities(), os.Stat, func(string) (io.ReadCloser, error) {
		return nil, openErr
	})
	st := in.Inspect(request.FileSpec{Path: path, Content: "x"})
	if st.ContentReadErr == nil {
		t.Fatal("want content read error")
	}
	if st.ContentChecked {
		t.Fatal("a failed read is not a comparison")
	}
}

func TestInspectSourcePrecedence(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f")
	source := filepath.Join(tmp, "src")
	if err := os.WriteFile(path, []byte("actual"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(source, []byte("actual"), 0o644); err != nil {
		t.Fatal(err)
	}
	in := NewInspector(driverIdentities())

	// Source exists and matches the file: literal content is ignored.
	st := in.Inspect(request.FileSpec{Path: path, Content: "would mismatch", ContentSource: source})
	if !st.ContentChecked || !st.ContentMatch {
		t.Fatalf("source should win: %+v", st)
	}

	// Absent source: the literal governs.
	st = in.Inspect(request.FileSpec{Path: path, Content: "actual", ContentSource: filepath.Join(tmp, "gone")})
	if !st.ContentChecked || !st.ContentMatch {
		t.Fatalf("literal should govern: %+v", st)
	}
}
