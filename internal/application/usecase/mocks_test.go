package usecase

import (
	"context"
	"sync"

	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
)

// fakeGenerator scripts the text generator: one reply per Generate call,
// in order. Calls are recorded for assertion.
type fakeGenerator struct {
	mu        sync.Mutex
	pingErr   error
	replies   []string
	errs      []error
	pingCalls int
	prompts   []string
	models    []string
}

func (f *fakeGenerator) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt, model string, opts service.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)

	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.replies) {
		return f.replies[call], nil
	}
	return "unscripted reply", nil
}

func (f *fakeGenerator) generateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeClassifier returns fixed predictions or a fixed error.
type fakeClassifier struct {
	mu          sync.Mutex
	predictions []valueobject.EmotionPrediction
	err         error
	calls       int
	texts       []string
}

func (f *fakeClassifier) Predict(ctx context.Context, text string) ([]valueobject.EmotionPrediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.predictions, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
