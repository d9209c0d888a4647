package sheets

import (
	"fmt"
	"regexp"
)

var (
	spreadsheetIDRe = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	gidRe           = regexp.MustCompile(`gid=(\d+)`)
)

// BuildExportURL turns a Google Sheets link into its CSV export endpoint.
// The tab defaults to gid 0 when the link does not carry one.
func BuildExportURL(sheetURL string) (string, error) {
	m := spreadsheetIDRe.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", &ConfigurationError{
			Key:    "gsheets.url",
			Value:  sheetURL,
			Reason: "could not extract the spreadsheet ID",
		}
	}

	gid := "0"
	if g := gidRe.FindStringSubmatch(sheetURL); g != nil {
		gid = g[1]
	}

	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", m[1], gid), nil
}
