package monitoring

import (
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics 指标收集器
type Metrics struct {
	// 请求计数
	RequestsTotal   uint64
	RequestsSuccess uint64
	RequestsFailed  uint64

	// 模型调用
	ModelCallsTotal  uint64
	ModelCallsFailed uint64

	// 情绪分类调用
	EmotionCallsTotal  uint64
	EmotionCallsFailed uint64

	// 日记生成
	JournalsGenerated uint64

	// 过期消息清理
	MessagesSwept uint64

	// 延迟 (纳秒)
	RequestLatencySum   uint64
	RequestLatencyCount uint64
	ModelLatencySum     uint64
	ModelLatencyCount   uint64

	// 错误
	ErrorsTotal uint64

	// 启动时间
	StartTime time.Time
}

// Monitor 性能监控器
type Monitor struct {
	metrics *Metrics
	logger  *zap.Logger
}

// NewMonitor 创建监控器
func NewMonitor(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		metrics: &Metrics{
			StartTime: time.Now(),
		},
		logger: logger,
	}
}

// 计数方法
func (m *Monitor) IncRequestTotal()    { atomic.AddUint64(&m.metrics.RequestsTotal, 1) }
func (m *Monitor) IncRequestSuccess()  { atomic.AddUint64(&m.metrics.RequestsSuccess, 1) }
func (m *Monitor) IncRequestFailed()   { atomic.AddUint64(&m.metrics.RequestsFailed, 1) }
func (m *Monitor) IncModelCall()       { atomic.AddUint64(&m.metrics.ModelCallsTotal, 1) }
func (m *Monitor) IncModelCallFailed() { atomic.AddUint64(&m.metrics.ModelCallsFailed, 1) }
func (m *Monitor) IncEmotionCall()     { atomic.AddUint64(&m.metrics.EmotionCallsTotal, 1) }
func (m *Monitor) IncEmotionCallFailed() {
	atomic.AddUint64(&m.metrics.EmotionCallsFailed, 1)
}
func (m *Monitor) IncJournalGenerated() { atomic.AddUint64(&m.metrics.JournalsGenerated, 1) }
func (m *Monitor) IncError()            { atomic.AddUint64(&m.metrics.ErrorsTotal, 1) }

func (m *Monitor) AddMessagesSwept(n int64) {
	if n > 0 {
		atomic.AddUint64(&m.metrics.MessagesSwept, uint64(n))
	}
}

func (m *Monitor) RecordRequestLatency(d time.Duration) {
	atomic.AddUint64(&m.metrics.RequestLatencySum, uint64(d.Nanoseconds()))
	atomic.AddUint64(&m.metrics.RequestLatencyCount, 1)
}

func (m *Monitor) RecordModelLatency(d time.Duration) {
	atomic.AddUint64(&m.metrics.ModelLatencySum, uint64(d.Nanoseconds()))
	atomic.AddUint64(&m.metrics.ModelLatencyCount, 1)
}

// GetStats 获取当前统计
func (m *Monitor) GetStats() map[string]interface{} {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptime := time.Since(m.metrics.StartTime)
	reqTotal := atomic.LoadUint64(&m.metrics.RequestsTotal)

	avgLatency := float64(0)
	if count := atomic.LoadUint64(&m.metrics.RequestLatencyCount); count > 0 {
		avgLatency = float64(atomic.LoadUint64(&m.metrics.RequestLatencySum)) / float64(count) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds":       uptime.Seconds(),
		"requests_total":       reqTotal,
		"requests_success":     atomic.LoadUint64(&m.metrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&m.metrics.RequestsFailed),
		"model_calls_total":    atomic.LoadUint64(&m.metrics.ModelCallsTotal),
		"model_calls_failed":   atomic.LoadUint64(&m.metrics.ModelCallsFailed),
		"emotion_calls_total":  atomic.LoadUint64(&m.metrics.EmotionCallsTotal),
		"emotion_calls_failed": atomic.LoadUint64(&m.metrics.EmotionCallsFailed),
		"journals_generated":   atomic.LoadUint64(&m.metrics.JournalsGenerated),
		"messages_swept":       atomic.LoadUint64(&m.metrics.MessagesSwept),
		"errors_total":         atomic.LoadUint64(&m.metrics.ErrorsTotal),
		"avg_latency_ms":       avgLatency,
		"memory_mb":            float64(memStats.Alloc) / 1024 / 1024,
		"goroutines":           runtime.NumGoroutine(),
		"rps":                  float64(reqTotal) / uptime.Seconds(),
	}
}
