package request

import (
	"strings"
	"testing"
)

func TestParseArrayForm(t *testing.T) {
	req, err := Parse(`{
		"check_only": true,
		"files": [
			{"path": "/etc/app.conf", "mode": "0644", "owner": "root"},
			{"path": "/var/lib/app/data", "group": "app", "content": "x"}
		]
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !req.CheckOnly {
		t.Fatal("check_only not set")
	}
	if len(req.Files) != 2 {
		t.Fatalf("got %d files", len(req.Files))
	}
	if req.Files[0].Path != "/etc/app.conf" || req.Files[0].Mode != "0644" || req.Files[0].Owner != "root" {
		t.Fatalf("bad first spec: %+v", req.Files[0])
	}
	if req.Files[1].Group != "app" || req.Files[1].Content != "x" {
		t.Fatalf("bad second spec: %+v", req.Files[1])
	}
}

func TestParseObjectFormPreservesOrderDiscardsKeys(t *testing.T) {
	req, err := Parse(`{
		"files": {
			"zeta":  {"path": "/tmp/first"},
			"alpha": {"path": "/tmp/second", "content_source": "/srv/template"}
		}
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.CheckOnly {
		t.Fatal("check_only should default to false")
	}
	if len(req.Files) != 2 {
		t.Fatalf("got %d files", len(req.Files))
	}
	// Key order, not key name, decides the sequence.
	if req.Files[0].Path != "/tmp/first" || req.Files[1].Path != "/tmp/second" {
		t.Fatalf("order not preserved: %+v", req.Files)
	}
	if req.Files[1].ContentSource != "/srv/template" {
		t.Fatalf("content_source lost: %+v", req.Files[1])
	}
}

func TestParseBothFormsNormalizeIdentically(t *testing.T) {
	arr, err := Parse(`{"files": [{"path": "/a"}, {"path": "/b", "mode": "0600"}]}`)
	if err != nil {
		t.Fatalf("array form: %v", err)
	}
	obj, err := Parse(`{"files": {"x": {"path": "/a"}, "y": {"path": "/b", "mode": "0600"}}}`)
	if err != nil {
		t.Fatalf("object form: %v", err)
	}
	if len(arr.Files) != len(obj.Files) {
		t.Fatalf("length differs: %d vs %d", len(arr.Files), len(obj.Files))
	}
	for i := range arr.Files {
		if arr.Files[i] != obj.Files[i] {
			t.Fatalf("spec %d differs: %+v vs %+v", i, arr.Files[i], obj.Files[i])
		}
	}
}

func TestParseMissingFilesIsEmptyRequest(t *testing.T) {
	req, err := Parse(`{"check_only": false}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(req.Files) != 0 {
		t.Fatalf("expected no files, got %d", len(req.Files))
	}
}

func TestParseNullFieldsAreAbsent(t *testing.T) {
	req, err := Parse(`{"files": [{"path": "/a", "mode": null, "owner": null}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Files[0].Mode != "" || req.Files[0].Owner != "" {
		t.Fatalf("null fields should stay empty: %+v", req.Files[0])
	}
}

func TestParseUnknownSpecKeysIgnored(t *testing.T) {
	req, err := Parse(`{"files": [{"path": "/a", "comment": "keep me around"}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Files[0].Path != "/a" {
		t.Fatalf("bad spec: %+v", req.Files[0])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"not an object", `[1,2]`, "top-level value must be an object"},
		{"malformed", `{"files": [`, "end of input"},
		{"check_only type", `{"check_only": 1}`, "check_only must be a boolean"},
		{"files type", `{"files": "nope"}`, "array or object"},
		{"scalar entry in array", `{"files": ["nope"]}`, "file spec must be an object"},
		{"scalar entry in object", `{"files": {"a": 5}}`, "file spec must be an object"},
		{"non-string field", `{"files": [{"path": "/a", "mode": 600}]}`, `field "mode" must be a string`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}
