// Package request projects a decoded value tree into the typed audit
// request. The `files` collection may arrive as an array of spec objects or
// as an object mapping arbitrary keys to spec objects; both normalize into
// one ordered FileSpec sequence and later stages never see the difference.
package request

import (
	"fmt"

	"fsaudit/internal/jsonlite"
)

// FileSpec is one declared desired-state entry. An empty field means that
// dimension is not checked.
type FileSpec struct {
	Path          string
	Mode          string
	Owner         string
	Group         string
	Content       string
	ContentSource string
}

// Request is the full decoded audit request.
type Request struct {
	CheckOnly bool
	Files     []FileSpec
}

// Parse decodes and projects a request. Any failure here is an input error:
// the caller must abort before touching any file.
func Parse(input string) (*Request, error) {
	root, err := jsonlite.DecodeObject(input)
	if err != nil {
		return nil, err
	}

	req := &Request{}
	if v, ok := root.Get("check_only"); ok && v.Kind != jsonlite.Null {
		if v.Kind != jsonlite.Bool {
			return nil, fmt.Errorf("check_only must be a boolean")
		}
		req.CheckOnly = v.BoolVal
	}

	files, ok := root.Get("files")
	if !ok || files.Kind == jsonlite.Null {
		return req, nil
	}

	switch files.Kind {
	case jsonlite.Array:
		for i, item := range files.Items {
			spec, err := projectSpec(item)
			if err != nil {
				return nil, fmt.Errorf("files[%d]: %w", i, err)
			}
			req.Files = append(req.Files, spec)
		}
	case jsonlite.Object:
		// Key order is preserved, values are used, keys are discarded.
		for _, m := range files.Members {
			spec, err := projectSpec(m.Value)
			if err != nil {
				return nil, fmt.Errorf("files[%q]: %w", m.Key, err)
			}
			req.Files = append(req.Files, spec)
		}
	default:
		return nil, fmt.Errorf("files must be an array or object of file specs")
	}
	return req, nil
}

func projectSpec(v *jsonlite.Value) (FileSpec, error) {
	if v == nil || v.Kind != jsonlite.Object {
		return FileSpec{}, fmt.Errorf("file spec must be an object")
	}
	var spec FileSpec
	fields := map[string]*string{
		"path":           &spec.Path,
		"mode":           &spec.Mode,
		"owner":          &spec.Owner,
		"group":          &spec.Group,
		"content":        &spec.Content,
		"content_source": &spec.ContentSource,
	}
	for _, m := range v.Members {
		dst, known := fields[m.Key]
		if !known {
			// Unknown keys are ignored, matching the tolerant read of the
			// rest of the request envelope.
			continue
		}
		if m.Value.Kind == jsonlite.Null {
			continue
		}
		if m.Value.Kind != jsonlite.String {
			return FileSpec{}, fmt.Errorf("field %q must be a string", m.Key)
		}
		*dst = m.Value.StrVal
	}
	return spec, nil
}
