package valueobject

import (
	"fmt"
	"sort"
	"strings"
)

// NeutralMood 情绪标注失败或无信号时的回退值
const NeutralMood = "neutral"

// EmotionPrediction 情绪预测值对象（不可变）
type EmotionPrediction struct {
	label string
	score float64
}

// NewEmotionPrediction 创建情绪预测
func NewEmotionPrediction(label string, score float64) EmotionPrediction {
	return EmotionPrediction{label: label, score: score}
}

// Label 返回情绪标签
func (p EmotionPrediction) Label() string {
	return p.label
}

// Score 返回置信度（0~1）
func (p EmotionPrediction) Score() float64 {
	return p.score
}

// SortByScore 按置信度降序排序（返回副本，不修改入参）
func SortByScore(predictions []EmotionPrediction) []EmotionPrediction {
	sorted := make([]EmotionPrediction, len(predictions))
	copy(sorted, predictions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].score > sorted[j].score
	})
	return sorted
}

// MoodSummary 将预测集合渲染为可读摘要，如 "joy (0.82), calm (0.11)"。
// 空集合返回 NeutralMood。
func MoodSummary(predictions []EmotionPrediction) string {
	if len(predictions) == 0 {
		return NeutralMood
	}

	sorted := SortByScore(predictions)
	parts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", p.label, p.score))
	}
	return strings.Join(parts, ", ")
}
