package service

import (
	"careerzoom_backend/internal/model"
	"math"
)

// 子项分数 < weakThreshold 记为弱项，>= strongThreshold 记为强项，中间区间不归类
const (
	weakThreshold   = 3.0
	strongThreshold = 4.0
)

// ExtractScores 按 content、delivery、technical 的顺序收集已评分的子项分数
func ExtractScores(feedback *model.Feedback) []float64 {
	scores := []float64{}
	for _, category := range model.FeedbackCategories {
		section := feedback.Section(category)
		for _, key := range section.OrderedKeys(category) {
			if score, ok := section[key].Scored(); ok {
				scores = append(scores, score)
			}
		}
	}
	return scores
}

// ClassifyAreas 生成 category_subcategory 形式的弱项与强项标签
func ClassifyAreas(feedback *model.Feedback) (weak, strong []string) {
	weak, strong = []string{}, []string{}
	for _, category := range model.FeedbackCategories {
		section := feedback.Section(category)
		for _, key := range section.OrderedKeys(category) {
			score, ok := section[key].Scored()
			if !ok {
				continue
			}
			tag := category + "_" + key
			switch {
			case score < weakThreshold:
				weak = append(weak, tag)
			case score >= strongThreshold:
				strong = append(strong, tag)
			}
		}
	}
	return weak, strong
}

func averageOf(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mergeTags 并集，保留首次出现的顺序
func mergeTags(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, list := range [][]string{existing, incoming} {
		for _, tag := range list {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
