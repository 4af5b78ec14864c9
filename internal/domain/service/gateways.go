package service

import (
	"context"

	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
)

// GenerateOptions per-call generation parameters
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// TextGenerator 文本生成客户端接口
type TextGenerator interface {
	// Ping 探测服务是否可用
	Ping(ctx context.Context) error
	// Generate 发送单个 prompt 并返回补全文本
	Generate(ctx context.Context, prompt, model string, opts GenerateOptions) (string, error)
}

// EmotionClassifier 情绪分类客户端接口
type EmotionClassifier interface {
	// Predict 对文本做情绪分类，按置信度从高到低返回
	Predict(ctx context.Context, text string) ([]valueobject.EmotionPrediction, error)
}
