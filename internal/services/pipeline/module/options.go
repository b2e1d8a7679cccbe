package module

import (
	"strings"
	"time"

	"curately/internal/platform/config"
	"curately/internal/platform/logger"
)

// Options for the pipeline module
type Options struct {
	Tick               time.Duration
	RunAt              string
	RewindWeekday      time.Weekday
	Timezone           string
	FetchTimeout       time.Duration
	RelevanceThreshold float64
	MaxArticles        int
}

// FromConfig fills options from the service-scoped config view
// CORE_PIPELINE_TICK (default 1m) is the loop granularity
// CORE_PIPELINE_RUN_AT (default "06:00") is the daily wall-clock trigger
// CORE_PIPELINE_REWIND_WEEKDAY (default "sunday") is the weekly rewind day
// CORE_PIPELINE_TIMEZONE (default "UTC") anchors the trigger time
// CORE_PIPELINE_FETCH_TIMEOUT (default 10s) bounds one feed download
// CORE_PIPELINE_RELEVANCE_THRESHOLD (default 0.2) drops low scoring entries
// CORE_PIPELINE_MAX_ARTICLES (default 10) caps one newsletter date
func FromConfig(p config.Conf) Options {
	return Options{
		Tick:               p.MayDuration("TICK", time.Minute),
		RunAt:              p.MayString("RUN_AT", "06:00"),
		RewindWeekday:      parseWeekday(p.MayString("REWIND_WEEKDAY", "sunday")),
		Timezone:           p.MayString("TIMEZONE", "UTC"),
		FetchTimeout:       p.MayDuration("FETCH_TIMEOUT", 0),
		RelevanceThreshold: p.MayFloat64("RELEVANCE_THRESHOLD", 0),
		MaxArticles:        p.MayInt("MAX_ARTICLES", 0),
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) time.Weekday {
	if d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d
	}
	logger.Named("pipeline").Warn().Str("weekday", s).Msg("unknown weekday, defaulting to sunday")
	return time.Sunday
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Named("pipeline").Warn().Str("tz", name).Msg("unknown timezone, defaulting to UTC")
		return time.UTC
	}
	return loc
}
