package sheets

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// dayFirstLayout is the layout of manually maintained copies (DD-MM-YYYY).
	dayFirstLayout = "2-1-2006"
	// monthFirstLayout is what the Sheets CSV export emits (MM/DD/YYYY).
	monthFirstLayout = "1/2/2006"
)

// flexibleLayouts are tried last. Every day-first shape comes before its
// month-first twin, so a value that reads both ways is taken day first and a
// value that only reads one way (13/2/26, 2/13/26) is still accepted.
var flexibleLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/1/2",

	"2/1/2006",
	"2.1.2006",
	"2/1/2006 15:04:05",
	"2-1-2006 15:04:05",
	"2/1/06",
	"2-1-06",

	"1-2-2006",
	"1.2.2006",
	"1/2/2006 15:04:05",
	"1-2-2006 15:04:05",
	"1/2/06",
	"1-2-06",

	"2 January 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"January 2, 2006",
}

// ParseDate runs the three-stage cascade on one cell. It reports false for
// blank cells and for values no stage understands.
func ParseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(dayFirstLayout, s); err == nil {
		return t, true
	}

	if t, err := time.Parse(monthFirstLayout, s); err == nil {
		return t, true
	}

	return parseFlexible(s)
}

func parseFlexible(s string) (time.Time, bool) {
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}

	// Excel serial day numbers show up when a cell is formatted as a number.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return truncateDay(t), true
		}
	}

	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
