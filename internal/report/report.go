// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report scores resolved papers and summarizes a batch: the
// recognition score of each assignment, open-source statistics, topic
// counts and the list of most popular repositories.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/codefinder/pkg/types"
)

// DefaultMinStars is the star count a repository needs to be recommended.
const DefaultMinStars = 500

// Recognition combines verification, popularity and age into one score:
//
//	2*verified + ln(stars+1) + 0.5*ln(days_since_created+1)
//
// rounded to two decimals. A zero createdAt contributes nothing.
func Recognition(verified bool, stars int, createdAt, now time.Time) float64 {
	var score float64
	if verified {
		score += 2
	}
	score += math.Log(float64(max(stars, 0)) + 1)
	if !createdAt.IsZero() {
		days := math.Floor(now.Sub(createdAt).Hours() / 24)
		score += 0.5 * math.Log(math.Max(days, 0)+1)
	}
	return math.Round(score*100) / 100
}

// TopicCount is how many paper titles mention one topic.
type TopicCount struct {
	Topic string  `json:"topic" yaml:"topic"`
	Count int     `json:"count" yaml:"count"`
	Share float64 `json:"share" yaml:"share"`
}

// Stats summarizes a batch of assignments.
type Stats struct {
	TotalPapers        int          `json:"total_papers" yaml:"total_papers"`
	OpenSource         int          `json:"open_source_count" yaml:"open_source_count"`
	OpenSourceRate     float64      `json:"open_source_rate" yaml:"open_source_rate"`
	AverageRecognition float64      `json:"avg_recognition" yaml:"avg_recognition"`
	Topics             []TopicCount `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// Summarize computes batch statistics. Topic counts are case-insensitive
// substring matches on titles, in the order the topics are given.
func Summarize(assignments []types.Assignment, topics []string) Stats {
	st := Stats{TotalPapers: len(assignments)}
	if st.TotalPapers == 0 {
		return st
	}

	var total float64
	for _, a := range assignments {
		if a.HasRepo() {
			st.OpenSource++
		}
		total += a.Recognition
	}
	st.OpenSourceRate = round2(float64(st.OpenSource) / float64(st.TotalPapers))
	st.AverageRecognition = round2(total / float64(st.TotalPapers))

	for _, topic := range topics {
		lt := strings.ToLower(strings.TrimSpace(topic))
		if lt == "" {
			continue
		}
		n := 0
		for _, a := range assignments {
			if strings.Contains(strings.ToLower(a.PaperTitle), lt) {
				n++
			}
		}
		st.Topics = append(st.Topics, TopicCount{
			Topic: lt,
			Count: n,
			Share: round2(float64(n) / float64(st.TotalPapers)),
		})
	}
	return st
}

// TopRecommended returns up to n assignments with at least minStars stars,
// most starred first. Equal star counts keep input order. n <= 0 means no
// limit.
func TopRecommended(assignments []types.Assignment, minStars, n int) []types.Assignment {
	var out []types.Assignment
	for _, a := range assignments {
		if a.HasRepo() && a.Stars >= minStars {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
