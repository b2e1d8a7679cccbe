package rewind

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestHotTopics_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  []HotTopic
	}{
		{
			name: "absent",
			in:   "",
			out:  []HotTopic{},
		},
		{
			name: "null",
			in:   "null",
			out:  []HotTopic{},
		},
		{
			name: "not an array",
			in:   `{"topic":"go","count":3}`,
			out:  []HotTopic{},
		},
		{
			name: "string array maps to count zero",
			in:   `["LLM Agents","Kubernetes"]`,
			out:  []HotTopic{{Topic: "LLM Agents", Count: 0}, {Topic: "Kubernetes", Count: 0}},
		},
		{
			name: "object array passes through",
			in:   `[{"topic":"go","count":5},{"topic":"rust","count":2}]`,
			out:  []HotTopic{{Topic: "go", Count: 5}, {Topic: "rust", Count: 2}},
		},
		{
			name: "malformed objects dropped",
			in:   `[{"topic":"go","count":5},{"topic":7,"count":1},{"count":2},{"topic":"ok"},null,{"topic":"rust","count":2}]`,
			out:  []HotTopic{{Topic: "go", Count: 5}, {Topic: "rust", Count: 2}},
		},
		{
			name: "negative and fractional counts dropped",
			in:   `[{"topic":"a","count":-1},{"topic":"b","count":1.5},{"topic":"c","count":0}]`,
			out:  []HotTopic{{Topic: "c", Count: 0}},
		},
		{
			name: "mixed strings and objects fall to object path",
			in:   `["bare",{"topic":"go","count":1}]`,
			out:  []HotTopic{{Topic: "go", Count: 1}},
		},
		{
			name: "extra object keys ignored",
			in:   `[{"topic":"go","count":3,"score":0.9}]`,
			out:  []HotTopic{{Topic: "go", Count: 3}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := HotTopics(json.RawMessage(tc.in))
			if !reflect.DeepEqual(got, tc.out) {
				t.Fatalf("HotTopics(%s) = %#v, want %#v", tc.in, got, tc.out)
			}
			if len(got) > arrayLen(tc.in) {
				t.Fatalf("normalized list longer than input: %d > %d", len(got), arrayLen(tc.in))
			}
		})
	}
}

func TestTrendChanges_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  []TrendChange
	}{
		{
			name: "absent",
			in:   "",
			out:  []TrendChange{},
		},
		{
			name: "null",
			in:   "null",
			out:  []TrendChange{},
		},
		{
			name: "flat array passes through in order",
			in:   `[{"keyword":"docker","direction":"declining","weight_change":-1.2},{"keyword":"wasm","direction":"rising","weight_change":0.4}]`,
			out: []TrendChange{
				{Keyword: "docker", Direction: "declining", WeightChange: -1.2},
				{Keyword: "wasm", Direction: "rising", WeightChange: 0.4},
			},
		},
		{
			name: "bad direction dropped not coerced",
			in:   `[{"keyword":"a","direction":"rising","weight_change":1},{"keyword":"b","direction":"up","weight_change":2},{"keyword":"c","direction":"declining","weight_change":3}]`,
			out: []TrendChange{
				{Keyword: "a", Direction: "rising", WeightChange: 1},
				{Keyword: "c", Direction: "declining", WeightChange: 3},
			},
		},
		{
			name: "missing weight dropped",
			in:   `[{"keyword":"a","direction":"rising"}]`,
			out:  []TrendChange{},
		},
		{
			name: "legacy grouped form rising first",
			in:   `{"rising":["a","b"],"declining":["c"]}`,
			out: []TrendChange{
				{Keyword: "a", Direction: "rising"},
				{Keyword: "b", Direction: "rising"},
				{Keyword: "c", Direction: "declining"},
			},
		},
		{
			name: "grouped form with one group absent",
			in:   `{"declining":["c"]}`,
			out:  []TrendChange{{Keyword: "c", Direction: "declining"}},
		},
		{
			name: "grouped form with non-array group treated as empty",
			in:   `{"rising":"nope","declining":["c"]}`,
			out:  []TrendChange{{Keyword: "c", Direction: "declining"}},
		},
		{
			name: "scalar input",
			in:   `42`,
			out:  []TrendChange{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := TrendChanges(json.RawMessage(tc.in))
			if !reflect.DeepEqual(got, tc.out) {
				t.Fatalf("TrendChanges(%s) = %#v, want %#v", tc.in, got, tc.out)
			}
			for _, c := range got {
				if c.Direction != DirectionRising && c.Direction != DirectionDeclining {
					t.Fatalf("direction invariant violated: %q", c.Direction)
				}
			}
		})
	}
}

func TestOverviewAndSuggestions(t *testing.T) {
	content := json.RawMessage(`{"overview":"a good week","suggestions":["read less","touch grass"],"junk":{"k":1}}`)

	if ov := Overview(content); ov == nil || *ov != "a good week" {
		t.Fatalf("Overview = %v, want a good week", ov)
	}
	if sg := Suggestions(content); !reflect.DeepEqual(sg, []string{"read less", "touch grass"}) {
		t.Fatalf("Suggestions = %#v", sg)
	}

	t.Run("non-string overview is nil", func(t *testing.T) {
		if ov := Overview(json.RawMessage(`{"overview":7}`)); ov != nil {
			t.Fatalf("Overview should be nil for non-string, got %v", *ov)
		}
	})
	t.Run("non-string-array suggestions empty", func(t *testing.T) {
		if sg := Suggestions(json.RawMessage(`{"suggestions":"one"}`)); len(sg) != 0 {
			t.Fatalf("Suggestions should be empty, got %#v", sg)
		}
		if sg := Suggestions(json.RawMessage(`{"suggestions":[1,2]}`)); len(sg) != 0 {
			t.Fatalf("Suggestions should be empty for numbers, got %#v", sg)
		}
	})
	t.Run("absent content", func(t *testing.T) {
		if ov := Overview(nil); ov != nil {
			t.Fatalf("Overview of nil content should be nil")
		}
		if sg := Suggestions(nil); len(sg) != 0 {
			t.Fatalf("Suggestions of nil content should be empty")
		}
	})
	t.Run("content not an object", func(t *testing.T) {
		if ov := Overview(json.RawMessage(`[1,2]`)); ov != nil {
			t.Fatalf("Overview of array content should be nil")
		}
	})
}

func TestNormalize_ComposesAndIsIdempotent(t *testing.T) {
	raw := RawReport{
		ID:            42,
		UserID:        "u-1",
		PeriodStart:   "2026-08-17",
		PeriodEnd:     "2026-08-23",
		CreatedAt:     "2026-08-24T09:00:00Z",
		HotTopics:     json.RawMessage(`["go","rust"]`),
		TrendChanges:  json.RawMessage(`{"rising":["wasm"],"declining":["docker"]}`),
		ReportContent: json.RawMessage(`{"overview":"steady","suggestions":["s1"]}`),
	}

	r := Normalize(raw)
	if r.ID != 42 || r.UserID != "u-1" {
		t.Fatalf("identity fields lost: %+v", r)
	}
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() || r.CreatedAt.IsZero() {
		t.Fatalf("timestamps not parsed: %+v", r)
	}
	if !r.PeriodEnd.After(r.PeriodStart) {
		t.Fatalf("period end should follow start")
	}
	if len(r.HotTopics) != 2 || r.HotTopics[0].Count != 0 {
		t.Fatalf("hot topics: %#v", r.HotTopics)
	}
	if len(r.TrendChanges) != 2 || r.TrendChanges[0].Direction != DirectionRising {
		t.Fatalf("trend changes: %#v", r.TrendChanges)
	}
	if r.Overview == nil || *r.Overview != "steady" {
		t.Fatalf("overview: %v", r.Overview)
	}

	// re-normalizing the normalized report's wire form yields identical output
	again := Normalize(roundTrip(t, r))
	if !reflect.DeepEqual(r, again) {
		t.Fatalf("Normalize not idempotent:\n first=%#v\nsecond=%#v", r, again)
	}
}

func TestNormalize_TotalOnGarbage(t *testing.T) {
	r := Normalize(RawReport{
		ID:            1,
		UserID:        "u",
		PeriodStart:   "not-a-date",
		HotTopics:     json.RawMessage(`{"oops":true}`),
		TrendChanges:  json.RawMessage(`"nope"`),
		ReportContent: json.RawMessage(`17`),
	})
	if len(r.HotTopics) != 0 || len(r.TrendChanges) != 0 || r.Overview != nil || len(r.Suggestions) != 0 {
		t.Fatalf("garbage should degrade to empty: %+v", r)
	}
	if !r.PeriodStart.IsZero() {
		t.Fatalf("unparseable date should be zero time")
	}
}

// roundTrip re-encodes a normalized report as the analyzer would emit it
func roundTrip(t *testing.T, r Report) RawReport {
	t.Helper()
	topics, err := json.Marshal(r.HotTopics)
	if err != nil {
		t.Fatal(err)
	}
	changes, err := json.Marshal(r.TrendChanges)
	if err != nil {
		t.Fatal(err)
	}
	content := map[string]any{"suggestions": r.Suggestions}
	if r.Overview != nil {
		content["overview"] = *r.Overview
	}
	blob, err := json.Marshal(content)
	if err != nil {
		t.Fatal(err)
	}
	return RawReport{
		ID:            r.ID,
		UserID:        r.UserID,
		PeriodStart:   r.PeriodStart.Format("2006-01-02T15:04:05Z07:00"),
		PeriodEnd:     r.PeriodEnd.Format("2006-01-02T15:04:05Z07:00"),
		CreatedAt:     r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		HotTopics:     topics,
		TrendChanges:  changes,
		ReportContent: blob,
	}
}

// arrayLen counts top-level elements when the input parses as a JSON array
func arrayLen(s string) int {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(s), &elems); err != nil {
		return 1 << 30
	}
	return len(elems)
}
