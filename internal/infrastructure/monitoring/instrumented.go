package monitoring

import (
	"context"
	"time"

	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
)

// InstrumentedGenerator wraps a TextGenerator with Monitor counters and
// latency recording. Purely observational; errors pass through untouched.
//
// Usage:
//
//	monitor := monitoring.NewMonitor(logger)
//	llm := monitoring.NewInstrumentedGenerator(ollamaClient, monitor)
type InstrumentedGenerator struct {
	next    service.TextGenerator
	monitor *Monitor
}

// NewInstrumentedGenerator creates a metrics-collecting generator wrapper.
func NewInstrumentedGenerator(next service.TextGenerator, monitor *Monitor) *InstrumentedGenerator {
	return &InstrumentedGenerator{next: next, monitor: monitor}
}

// Compile-time interface check
var _ service.TextGenerator = (*InstrumentedGenerator)(nil)

func (g *InstrumentedGenerator) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt, model string, opts service.GenerateOptions) (string, error) {
	g.monitor.IncModelCall()
	start := time.Now()

	completion, err := g.next.Generate(ctx, prompt, model, opts)
	if err != nil {
		g.monitor.IncModelCallFailed()
		g.monitor.IncError()
		return "", err
	}

	g.monitor.RecordModelLatency(time.Since(start))
	return completion, nil
}

// InstrumentedClassifier wraps an EmotionClassifier with Monitor counters.
type InstrumentedClassifier struct {
	next    service.EmotionClassifier
	monitor *Monitor
}

// NewInstrumentedClassifier creates a metrics-collecting classifier wrapper.
func NewInstrumentedClassifier(next service.EmotionClassifier, monitor *Monitor) *InstrumentedClassifier {
	return &InstrumentedClassifier{next: next, monitor: monitor}
}

// Compile-time interface check
var _ service.EmotionClassifier = (*InstrumentedClassifier)(nil)

func (c *InstrumentedClassifier) Predict(ctx context.Context, text string) ([]valueobject.EmotionPrediction, error) {
	c.monitor.IncEmotionCall()

	predictions, err := c.next.Predict(ctx, text)
	if err != nil {
		c.monitor.IncEmotionCallFailed()
		c.monitor.IncError()
		return nil, err
	}
	return predictions, nil
}
