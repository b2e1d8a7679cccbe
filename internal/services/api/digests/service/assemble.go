package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"curately/internal/core/keywords"
	"curately/internal/services/api/digests/domain"
)

const (
	maxTakeaways   = 5
	fallbackTheme  = "general"
	maxConnections = 6
)

// Assemble builds deterministic digest content from the day's top articles.
// Articles arrive relevance-sorted; that order decides the headline, the
// takeaways, and the ordering inside each section
func Assemble(date time.Time, arts []domain.SourceArticle) (domain.Content, []int64) {
	ids := make([]int64, 0, len(arts))
	for _, a := range arts {
		ids = append(ids, a.ID)
	}

	return domain.Content{
		Headline:     headline(date, arts),
		Sections:     sections(arts),
		KeyTakeaways: takeaways(arts),
		Connections:  connections(arts),
	}, ids
}

func headline(date time.Time, arts []domain.SourceArticle) string {
	return fmt.Sprintf("%s: %d stories, led by %q", date.Format("January 2"), len(arts), arts[0].Title)
}

// sections groups articles by their first category, keeping themes in the
// order their best article appeared
func sections(arts []domain.SourceArticle) []domain.Section {
	order := []string{}
	byTheme := map[string][]domain.SourceArticle{}
	for _, a := range arts {
		theme := fallbackTheme
		if len(a.Categories) > 0 && a.Categories[0] != "" {
			theme = a.Categories[0]
		}
		if _, seen := byTheme[theme]; !seen {
			order = append(order, theme)
		}
		byTheme[theme] = append(byTheme[theme], a)
	}

	out := make([]domain.Section, 0, len(order))
	for _, theme := range order {
		group := byTheme[theme]
		var b strings.Builder
		sids := make([]int64, 0, len(group))
		for i, a := range group {
			if i > 0 {
				b.WriteString(" ")
			}
			if a.Summary != nil && *a.Summary != "" {
				b.WriteString(*a.Summary)
			} else {
				b.WriteString(a.Title + ".")
			}
			sids = append(sids, a.ID)
		}
		out = append(out, domain.Section{
			Theme:      theme,
			Title:      group[0].Title,
			Body:       b.String(),
			ArticleIDs: sids,
		})
	}
	return out
}

func takeaways(arts []domain.SourceArticle) []string {
	n := len(arts)
	if n > maxTakeaways {
		n = maxTakeaways
	}
	out := make([]string, 0, n)
	for _, a := range arts[:n] {
		out = append(out, a.Title)
	}
	return out
}

// connections names the keywords shared across articles of the day.
// Keywords are compared by their folded form so "Docker" and "docker" count
// as the same thread; the first spelling seen is the one displayed
func connections(arts []domain.SourceArticle) string {
	counts := map[string]int{}
	display := map[string]string{}
	for _, a := range arts {
		seen := map[string]bool{}
		for _, raw := range a.Keywords {
			kw := keywords.Canonical(raw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			counts[kw]++
			if _, ok := display[kw]; !ok {
				display[kw] = raw
			}
		}
	}

	var shared []string
	for kw, c := range counts {
		if c >= 2 {
			shared = append(shared, kw)
		}
	}
	if len(shared) == 0 {
		return "No recurring threads across today's stories."
	}
	sort.Slice(shared, func(i, j int) bool {
		if counts[shared[i]] != counts[shared[j]] {
			return counts[shared[i]] > counts[shared[j]]
		}
		return shared[i] < shared[j]
	})
	if len(shared) > maxConnections {
		shared = shared[:maxConnections]
	}
	names := make([]string, 0, len(shared))
	for _, kw := range shared {
		names = append(names, display[kw])
	}
	return "Recurring threads today: " + strings.Join(names, ", ") + "."
}
