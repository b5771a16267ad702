package engine

import (
	"fsaudit/internal/jsonlite"
)

// ToValue projects the response into a value tree with a fixed key order,
// so the encoded bytes are reproducible across runs. Counts are integer
// nodes and flags are boolean nodes; the encoder never infers a type from
// the numeric value.
func (r *Response) ToValue() *jsonlite.Value {
	issues := jsonlite.NewArray()
	for _, s := range r.ComplianceIssues {
		issues.Append(jsonlite.NewString(s))
	}

	details := jsonlite.NewArray()
	for _, fr := range r.Details {
		details.Append(fr.toValue())
	}

	return jsonlite.NewObject().
		Set("status", jsonlite.NewString(r.Status)).
		Set("files_checked", jsonlite.NewInt(int64(r.FilesChecked))).
		Set("files_fixed", jsonlite.NewInt(int64(r.FilesFixed))).
		Set("compliance_issues", issues).
		Set("details", details)
}

// Encode renders the response to its wire form.
func (r *Response) Encode() string {
	return jsonlite.Encode(r.ToValue())
}

func (fr *FileResult) toValue() *jsonlite.Value {
	issues := jsonlite.NewArray()
	for _, i := range fr.Issues {
		issues.Append(jsonlite.NewString(i.String()))
	}

	obj := jsonlite.NewObject().
		Set("path", jsonlite.NewString(fr.Path)).
		Set("compliant", jsonlite.NewBool(fr.Compliant)).
		Set("issues", issues)

	switch {
	case fr.Err != nil:
		obj.Set("error", jsonlite.NewObject().
			Set("type", jsonlite.NewString(fr.Err.Type)).
			Set("message", jsonlite.NewString(fr.Err.Message)))
	case len(fr.Fixes) > 0:
		fixes := jsonlite.NewArray()
		for _, f := range fr.Fixes {
			fixes.Append(jsonlite.NewString(f.String()))
		}
		obj.Set("fixes_applied", fixes)
	}
	return obj
}
