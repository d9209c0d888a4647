package sheets

import (
	"errors"
	"fmt"
)

// ErrOptionalColumnAbsent marks a column that the source may legitimately omit.
// It is never returned from Load; callers see it only through Schema checks.
var ErrOptionalColumnAbsent = errors.New("optional column absent")

// ConfigurationError reports a missing or malformed source configuration.
type ConfigurationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("configuration %s=%q: %s", e.Key, e.Value, e.Reason)
}

// DataSourceError reports a failure fetching or parsing the source table.
type DataSourceError struct {
	SourceURL string
	ExportURL string
	Err       error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.ExportURL, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// DataShapeError reports required columns missing from the source table.
type DataShapeError struct {
	Missing []string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("source table is missing required columns: %v", e.Missing)
}
