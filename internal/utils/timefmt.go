package utils

import (
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04"

// trackerTimestampLayouts lists the layouts the issue tracker emits, most specific first.
var trackerTimestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// FormatTimestamp returns the provided time formatted using the local time zone
// and a layout that includes date and minutes (locale-sensitive via system TZ).
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// ParseTrackerTimestamp parses a tracker timestamp string. Unparseable input yields the zero time.
func ParseTrackerTimestamp(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range trackerTimestampLayouts {
		parsed, parseError := time.Parse(layout, trimmed)
		if parseError == nil {
			return parsed
		}
	}
	return time.Time{}
}
