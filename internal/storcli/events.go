package storcli

import (
	"log/slog"
	"strings"
	"time"
)

// eventDelimiter marks the start of each record in a
// "show events filter=warning,critical,fatal" dump.
const eventDelimiter = "seqNum:"

// eventTimeLayout matches the ctime-style "Time:" line of an event
// record, e.g. "Time: Sat Aug 30 10:15:42 2025".
const eventTimeLayout = time.ANSIC

// SplitEvents splits a raw event-log dump into records, preserving
// stream order. Records without a parseable "Time:" line are dropped.
func SplitEvents(dump []byte) []EventRecord {
	chunks := strings.Split(string(dump), eventDelimiter)
	if len(chunks) < 2 {
		return nil
	}

	var events []EventRecord
	skipped := 0
	for _, chunk := range chunks[1:] {
		lines := strings.Split(chunk, "\n")
		ev := EventRecord{SeqNum: strings.TrimSpace(lines[0])}

		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if v, ok := strings.CutPrefix(line, "Time:"); ok {
				ts, err := time.Parse(eventTimeLayout, strings.TrimSpace(v))
				if err != nil {
					break
				}
				ev.Time = ts
			} else if v, ok := strings.CutPrefix(line, "Event Description:"); ok {
				ev.Description = strings.TrimSpace(v)
			}
		}

		if ev.Time.IsZero() {
			skipped++
			continue
		}
		events = append(events, ev)
	}

	if skipped > 0 {
		slog.Debug("skipped event records without parseable timestamp", "count", skipped)
	}
	return events
}

// FilterSince returns the ordered subsequence of records at or after
// the cutoff. The stream is assumed chronological: once one record is
// in range, all following records are retained without re-checking.
func FilterSince(events []EventRecord, cutoff time.Time) []EventRecord {
	for i, ev := range events {
		if !ev.Time.Before(cutoff) {
			return events[i:]
		}
	}
	return nil
}
