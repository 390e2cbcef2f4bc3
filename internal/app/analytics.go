package app

import (
	"math"
	"sort"

	"quizforge-service/internal/domain"
)

// QualityStats aggregates the quality_score field across the dataset.
type QualityStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// UniqueCounts counts the distinct values per dataset dimension.
type UniqueCounts struct {
	Categories   int `json:"categories"`
	Difficulties int `json:"difficulties"`
	Topics       int `json:"topics"`
}

// DatasetSummary is the full analytics view over the question dataset.
type DatasetSummary struct {
	TotalQuestions int            `json:"total_questions"`
	Categories     map[string]int `json:"categories"`
	Difficulty     map[string]int `json:"difficulty"`
	Topics         []string       `json:"topics"`
	QualityStats   QualityStats   `json:"quality_stats"`
	UniqueCounts   UniqueCounts   `json:"unique_counts"`
}

// CategoryStat is the per-category breakdown.
type CategoryStat struct {
	Category            string         `json:"category"`
	Count               int            `json:"count"`
	Percentage          float64        `json:"percentage"`
	DifficultyBreakdown map[string]int `json:"difficulty_breakdown"`
}

// DifficultyStat is the per-difficulty breakdown.
type DifficultyStat struct {
	Level      string  `json:"level"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryDistribution counts questions per category.
func (s *QuestionService) CategoryDistribution() map[string]int {
	return distribution(s.store.All(), func(q domain.Question) string { return q.Category })
}

// DifficultyDistribution counts questions per difficulty level.
func (s *QuestionService) DifficultyDistribution() map[string]int {
	return distribution(s.store.All(), func(q domain.Question) string { return q.Difficulty })
}

// Topics returns the sorted unique source topics.
func (s *QuestionService) Topics() []string {
	return uniqueSorted(s.store.All(), func(q domain.Question) string { return q.SourceTopic })
}

// QualityStats returns min, max, and average quality score, each rounded to
// 2 decimals.
func (s *QuestionService) QualityStats() QualityStats {
	questions := s.store.All()
	if len(questions) == 0 {
		return QualityStats{}
	}

	min, max, sum := questions[0].QualityScore, questions[0].QualityScore, 0.0
	for _, q := range questions {
		if q.QualityScore < min {
			min = q.QualityScore
		}
		if q.QualityScore > max {
			max = q.QualityScore
		}
		sum += q.QualityScore
	}
	return QualityStats{
		Min:     round2(min),
		Max:     round2(max),
		Average: round2(sum / float64(len(questions))),
	}
}

// Summary combines all dataset analytics into one view.
func (s *QuestionService) Summary() DatasetSummary {
	topics := s.Topics()
	return DatasetSummary{
		TotalQuestions: s.store.Len(),
		Categories:     s.CategoryDistribution(),
		Difficulty:     s.DifficultyDistribution(),
		Topics:         topics,
		QualityStats:   s.QualityStats(),
		UniqueCounts: UniqueCounts{
			Categories:   len(s.Categories()),
			Difficulties: len(s.Difficulties()),
			Topics:       len(topics),
		},
	}
}

// CategoryStats breaks the dataset down per category, most populous first.
func (s *QuestionService) CategoryStats() []CategoryStat {
	questions := s.store.All()
	if len(questions) == 0 {
		return []CategoryStat{}
	}

	dist := s.CategoryDistribution()
	total := len(questions)

	stats := make([]CategoryStat, 0, len(dist))
	for category, count := range dist {
		breakdown := make(map[string]int)
		for _, q := range questions {
			if q.Category != category {
				continue
			}
			level := q.Difficulty
			if level == "" {
				level = "Unknown"
			}
			breakdown[level]++
		}
		stats = append(stats, CategoryStat{
			Category:            category,
			Count:               count,
			Percentage:          round2(100 * float64(count) / float64(total)),
			DifficultyBreakdown: breakdown,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// DifficultyStats breaks the dataset down per difficulty, in the
// conventional Easy/Medium/Hard order with unknown levels last.
func (s *QuestionService) DifficultyStats() []DifficultyStat {
	questions := s.store.All()
	if len(questions) == 0 {
		return []DifficultyStat{}
	}

	dist := s.DifficultyDistribution()
	total := len(questions)
	order := map[string]int{"Easy": 1, "Medium": 2, "Hard": 3}

	stats := make([]DifficultyStat, 0, len(dist))
	for level, count := range dist {
		stats = append(stats, DifficultyStat{
			Level:      level,
			Count:      count,
			Percentage: round2(100 * float64(count) / float64(total)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		oi, ok := order[stats[i].Level]
		if !ok {
			oi = 999
		}
		oj, ok := order[stats[j].Level]
		if !ok {
			oj = 999
		}
		if oi != oj {
			return oi < oj
		}
		return stats[i].Level < stats[j].Level
	})
	return stats
}

func distribution(questions []domain.Question, key func(domain.Question) string) map[string]int {
	dist := make(map[string]int)
	for _, q := range questions {
		k := key(q)
		if k == "" {
			continue
		}
		dist[k]++
	}
	return dist
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
