package stats

import (
	"encoding/json"
	"strings"
)

// Flip detection sets. A flip is recognized from either the button
// identifier or the action label, with the button set accepting one
// extra alias (jump_flip) that replay exporters emit.
var (
	flipButtons = map[string]bool{"flip": true, "double_jump": true, "jump_flip": true}
	flipActions = map[string]bool{"flip": true, "double_jump": true}
)

// Extract converts one raw match record into a normalized Tuple. It is
// total: any input, including bytes that are not JSON at all, yields a
// valid tuple, degrading to the zero tuple when nothing can be read.
//
// The record may carry an "events" list of input events (objects with
// optional "button" and "action" string fields) and explicit scalar
// overrides: boost_frames, total_frames, shots, goals. Explicit values
// win over anything derived from events.
func Extract(raw []byte) Tuple {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Zero()
	}
	record, ok := data.(map[string]any)
	if !ok {
		// Arrays, scalars and null carry no recognizable metrics.
		return Zero()
	}

	events, eventCount := eventList(record["events"])
	boostFrames, haveBoost := numberField(record, "boost_frames")
	totalFrames, haveTotal := numberField(record, "total_frames")
	shots, haveShots := numberField(record, "shots")
	goals, haveGoals := numberField(record, "goals")

	var flipCount, countedBoost float64
	for _, ev := range events {
		btn := strings.ToLower(stringField(ev, "button"))
		action := strings.ToLower(stringField(ev, "action"))
		if flipButtons[btn] || flipActions[action] {
			flipCount++
		}
		if btn == "boost" || action == "boost" {
			countedBoost++
		}
	}
	if !haveBoost {
		boostFrames = countedBoost
	}
	if !haveTotal {
		totalFrames = float64(eventCount)
	}
	if totalFrames < 1 {
		// Never divide by zero; an empty replay counts as one frame.
		totalFrames = 1
	}
	if !haveShots {
		shots = 0
	}
	if !haveGoals {
		goals = 0
	}

	return Tuple{
		BoostUsage: clampRatio(round3(nonNegative(boostFrames) / totalFrames)),
		FlipCount:  flipCount,
		Shots:      nonNegative(shots),
		Goals:      nonNegative(goals),
	}
}

// eventList returns the event objects under v plus the raw sequence
// length. Entries that are not objects still count toward the frame
// total but carry no button or action data.
func eventList(v any) ([]map[string]any, int) {
	seq, ok := v.([]any)
	if !ok {
		return nil, 0
	}
	events := make([]map[string]any, 0, len(seq))
	for _, e := range seq {
		if ev, ok := e.(map[string]any); ok {
			events = append(events, ev)
		}
	}
	return events, len(seq)
}

// numberField reads a numeric field from an untrusted record. Non-numeric
// values are treated as absent.
func numberField(record map[string]any, key string) (float64, bool) {
	n, ok := record[key].(float64)
	return n, ok
}

// stringField reads a string field from an event object; non-string
// values are treated as empty.
func stringField(ev map[string]any, key string) string {
	s, _ := ev[key].(string)
	return s
}

// nonNegative floors malformed negative overrides at zero so every
// extracted tuple honors the non-negative invariant.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// clampRatio caps boost_usage at 1.0. Explicit overrides can claim more
// boost frames than total frames; a ratio above 1 carries no meaning.
func clampRatio(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
