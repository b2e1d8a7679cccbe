package rewind

import (
	"encoding/json"
	"math"
	"time"
)

// HotTopics converts the raw hot_topics value into a typed list.
//
// Accepted shapes: absent/null, an array of strings, or an array of
// {topic,count} objects. A string array maps each entry to count 0. The
// object path keeps only elements with a string topic and a non-negative
// integral count; everything else is dropped silently so one malformed entry
// never takes down the whole list
func HotTopics(raw json.RawMessage) []HotTopic {
	if len(raw) == 0 {
		return []HotTopic{}
	}

	// string-array form first: only applies when every element is a string
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		out := make([]HotTopic, 0, len(names))
		for _, n := range names {
			out = append(out, HotTopic{Topic: n, Count: 0})
		}
		return out
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []HotTopic{}
	}

	out := make([]HotTopic, 0, len(elems))
	for _, e := range elems {
		var obj struct {
			Topic *string  `json:"topic"`
			Count *float64 `json:"count"`
		}
		if err := json.Unmarshal(e, &obj); err != nil {
			continue
		}
		if obj.Topic == nil || obj.Count == nil {
			continue
		}
		c := *obj.Count
		if c < 0 || c != math.Trunc(c) || math.IsInf(c, 0) {
			continue
		}
		out = append(out, HotTopic{Topic: *obj.Topic, Count: int(c)})
	}
	return out
}

// TrendChanges converts the raw trend_changes value into a typed list.
//
// The flat array form is filtered: an element survives only with a string
// keyword, a direction of exactly "rising" or "declining", and a numeric
// weight_change, keeping source order. The legacy grouped object form emits
// one entry per keyword with weight_change 0, rising group first then
// declining; a group that is not a string array counts as empty
func TrendChanges(raw json.RawMessage) []TrendChange {
	if len(raw) == 0 {
		return []TrendChange{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		out := make([]TrendChange, 0, len(elems))
		for _, e := range elems {
			var obj struct {
				Keyword      *string  `json:"keyword"`
				Direction    *string  `json:"direction"`
				WeightChange *float64 `json:"weight_change"`
			}
			if err := json.Unmarshal(e, &obj); err != nil {
				continue
			}
			if obj.Keyword == nil || obj.Direction == nil || obj.WeightChange == nil {
				continue
			}
			if *obj.Direction != DirectionRising && *obj.Direction != DirectionDeclining {
				continue
			}
			out = append(out, TrendChange{
				Keyword:      *obj.Keyword,
				Direction:    *obj.Direction,
				WeightChange: *obj.WeightChange,
			})
		}
		return out
	}

	var grouped struct {
		Rising    json.RawMessage `json:"rising"`
		Declining json.RawMessage `json:"declining"`
	}
	if err := json.Unmarshal(raw, &grouped); err != nil {
		return []TrendChange{}
	}

	out := make([]TrendChange, 0)
	for _, kw := range stringsOrEmpty(grouped.Rising) {
		out = append(out, TrendChange{Keyword: kw, Direction: DirectionRising})
	}
	for _, kw := range stringsOrEmpty(grouped.Declining) {
		out = append(out, TrendChange{Keyword: kw, Direction: DirectionDeclining})
	}
	return out
}

// stringsOrEmpty decodes a string array or returns nil for any other shape
func stringsOrEmpty(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil
	}
	return ss
}

// Overview returns report_content.overview when it is a string, else nil.
// No coercion of non-string values
func Overview(content json.RawMessage) *string {
	v, ok := contentField(content, "overview")
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil
	}
	return &s
}

// Suggestions returns report_content.suggestions when it is an array of
// strings, else an empty list
func Suggestions(content json.RawMessage) []string {
	v, ok := contentField(content, "suggestions")
	if !ok {
		return []string{}
	}
	var ss []string
	if err := json.Unmarshal(v, &ss); err != nil {
		return []string{}
	}
	return ss
}

// contentField pulls one key out of the free-form report_content mapping
func contentField(content json.RawMessage, key string) (json.RawMessage, bool) {
	if len(content) == 0 {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// Normalize builds the domain Report from a RawReport. Total: any field that
// fails its shape check degrades to the empty or zero case. Idempotent in the
// sense that normalizing a normalized report's raw form yields the same output
func Normalize(raw RawReport) Report {
	return Report{
		ID:           raw.ID,
		UserID:       raw.UserID,
		PeriodStart:  parseWhen(raw.PeriodStart),
		PeriodEnd:    parseWhen(raw.PeriodEnd),
		CreatedAt:    parseWhen(raw.CreatedAt),
		HotTopics:    HotTopics(raw.HotTopics),
		TrendChanges: TrendChanges(raw.TrendChanges),
		Overview:     Overview(raw.ReportContent),
		Suggestions:  Suggestions(raw.ReportContent),
	}
}

// parseWhen accepts the timestamp flavors the analyzer has emitted over time.
// Unparseable values become the zero time rather than an error
func parseWhen(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
