package storcli

import (
	"testing"
	"time"
)

var eventsDump = `CLI Version = 007.1613.0000.0000 Oct 01, 2020
Operating system = Linux 5.4.0-122-generic
Controller = 0
Status = Success
Description = None


seqNum: 0x0000313d
Time: Fri Aug 29 09:58:00 2025

Code: 0x00000071
Class: 1
Locale: 0x20
Event Description: Unexpected sense: PD 09(e0x3e/s0), CDB: 0x2a
Event Data:
===========
None

seqNum: 0x0000313e
Time: Sat Aug 30 08:15:42 2025

Code: 0x000000fb
Class: 1
Locale: 0x02
Event Description: Battery temperature is high
Event Data:
===========
None

seqNum: 0x0000313f
Time: Sat Aug 30 09:01:10 2025

Code: 0x00000051
Class: 2
Locale: 0x02
Event Description: PD 0b(e0x3e/s2) is not supported
Event Data:
===========
None
`

func TestSplitEvents(t *testing.T) {
	events := SplitEvents([]byte(eventsDump))
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	first := events[0]
	if first.SeqNum != "0x0000313d" {
		t.Errorf("SeqNum = %q", first.SeqNum)
	}
	want := time.Date(2025, time.August, 29, 9, 58, 0, 0, time.UTC)
	if !first.Time.Equal(want) {
		t.Errorf("Time = %v, expected %v", first.Time, want)
	}
	if first.Description != "Unexpected sense: PD 09(e0x3e/s0), CDB: 0x2a" {
		t.Errorf("Description = %q", first.Description)
	}

	// ordering preserved from the stream
	if !events[0].Time.Before(events[1].Time) || !events[1].Time.Before(events[2].Time) {
		t.Error("events out of order")
	}
}

func TestSplitEventsEmptyAndMalformed(t *testing.T) {
	if events := SplitEvents(nil); len(events) != 0 {
		t.Errorf("expected no events from empty dump, got %d", len(events))
	}
	if events := SplitEvents([]byte("Status = Success\n")); len(events) != 0 {
		t.Errorf("expected no events without delimiter, got %d", len(events))
	}

	// a record whose Time line does not parse is dropped
	malformed := "seqNum: 0x01\nTime: not a time\nEvent Description: broken\n\n" +
		"seqNum: 0x02\nTime: Sat Aug 30 09:01:10 2025\nEvent Description: kept\n"
	events := SplitEvents([]byte(malformed))
	if len(events) != 1 || events[0].Description != "kept" {
		t.Errorf("expected only the parseable record, got %+v", events)
	}
}

func TestFilterSince(t *testing.T) {
	events := SplitEvents([]byte(eventsDump))
	cutoff := time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC)

	kept := FilterSince(events, cutoff)
	if len(kept) != 2 {
		t.Fatalf("expected 2 events at/after cutoff, got %d", len(kept))
	}
	if kept[0].SeqNum != "0x0000313e" {
		t.Errorf("first kept = %q", kept[0].SeqNum)
	}

	// a record exactly at the cutoff is included
	atCutoff := FilterSince(events, events[1].Time)
	if len(atCutoff) != 2 {
		t.Errorf("expected inclusive cutoff, got %d events", len(atCutoff))
	}

	// cutoff after the last record retains nothing
	if kept := FilterSince(events, events[2].Time.Add(time.Second)); len(kept) != 0 {
		t.Errorf("expected no events, got %d", len(kept))
	}

	if kept := FilterSince(nil, cutoff); len(kept) != 0 {
		t.Errorf("expected no events from empty stream, got %d", len(kept))
	}
}
