package support

import (
	"os"
	"path/filepath"
	"time"

	"fsaudit/internal/jsonlite"
)

// RunEntry is one line of the append-only run log.
type RunEntry struct {
	TimestampUTC string
	Mode         string
	CheckOnly    bool
	Status       string
	FilesChecked int
	FilesFixed   int
}

// AppendRunLog appends one run record to the log at path, creating parent
// directories as needed. The timestamp is stamped here.
func AppendRunLog(path string, entry RunEntry) error {
	entry.TimestampUTC = time.Now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := jsonlite.NewObject().
		Set("timestamp_utc", jsonlite.NewString(entry.TimestampUTC)).
		Set("mode", jsonlite.NewString(entry.Mode)).
		Set("check_only", jsonlite.NewBool(entry.CheckOnly)).
		Set("status", jsonlite.NewString(entry.Status)).
		Set("files_checked", jsonlite.NewInt(int64(entry.FilesChecked))).
		Set("files_fixed", jsonlite.NewInt(int64(entry.FilesFixed)))
	_, err = f.Write(append([]byte(jsonlite.Encode(line)), '\n'))
	return err
}
