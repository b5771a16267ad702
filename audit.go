package main

import (
	"fmt"
	"io"
	"os"

	"fsaudit/internal/engine"
	"fsaudit/internal/identity"
	"fsaudit/internal/jsonlite"
	"fsaudit/internal/request"
	"fsaudit/internal/support"
)

// runAudit performs one full request/response cycle. A malformed request is
// the only hard abort: it produces a structured error object on stderr and a
// non-zero exit, with nothing written to stdout.
func runAudit(requestPath, outPath string) {
	raw, err := readRequest(requestPath)
	if err != nil {
		emitInputError(err)
		os.Exit(1)
	}

	resp, err := executeRequest(raw, "audit")
	if err != nil {
		emitInputError(err)
		os.Exit(1)
	}

	if err := writeResponse(resp, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot write response: %v\n", err)
		os.Exit(1)
	}
}

// executeRequest parses and drives one request. Parse failures are returned;
// everything past parsing becomes result data inside the response.
func executeRequest(raw, mode string) (*engine.Response, error) {
	req, err := request.Parse(raw)
	if err != nil {
		return nil, err
	}

	ids := identity.NewResolver()
	driver := engine.NewDriver(
		engine.NewInspector(ids),
		engine.NewRemediator(ids, config.CreateFileMode()),
	)
	resp := driver.Run(req)

	if config.RunLogPath != "" {
		logErr := support.AppendRunLog(config.RunLogPath, support.RunEntry{
			Mode:         mode,
			CheckOnly:    req.CheckOnly,
			Status:       resp.Status,
			FilesChecked: resp.FilesChecked,
			FilesFixed:   resp.FilesFixed,
		})
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "WARNING: run log append failed: %v\n", logErr)
		}
	}
	return resp, nil
}

func readRequest(requestPath string) (string, error) {
	var data []byte
	var err error
	if requestPath != "" {
		data, err = os.ReadFile(requestPath)
	} else {
		data, err = io.ReadAll(io.LimitReader(os.Stdin, int64(config.MaxRequest)+1))
	}
	if err != nil {
		return "", fmt.Errorf("cannot read request: %w", err)
	}
	if len(data) > config.MaxRequest {
		return "", fmt.Errorf("request exceeds limit of %d bytes", config.MaxRequest)
	}
	return string(support.StripBOM(data)), nil
}

func writeResponse(resp *engine.Response, outPath string) error {
	out := resp.Encode() + "\n"
	if outPath != "" {
		return support.WriteFileAtomic(outPath, []byte(out))
	}
	_, err := io.WriteString(os.Stdout, out)
	return err
}

func emitInputError(err error) {
	obj := jsonlite.NewObject().
		Set("error", jsonlite.NewObject().
			Set("type", jsonlite.NewString("input_error")).
			Set("message", jsonlite.NewString(err.Error())))
	fmt.Fprintln(os.Stderr, jsonlite.Encode(obj))
}
