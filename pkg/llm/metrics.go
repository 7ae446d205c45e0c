package llm

import (
	"sync"
	"time"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Average 平均延迟
func (s LatencyStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *LatencyStats) record(d time.Duration) {
	s.Count++
	s.Total += d

	if s.Min == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
}

// OperationStats 单类调用的统计
type OperationStats struct {
	Successes int64
	Failures  int64
	Latency   LatencyStats
}

// CallMetrics 调用指标收集器
type CallMetrics struct {
	mu  sync.Mutex
	ops map[Operation]*OperationStats
}

// NewCallMetrics 创建新的指标收集器
func NewCallMetrics() *CallMetrics {
	return &CallMetrics{ops: make(map[Operation]*OperationStats)}
}

// Record 记录一次调用结果
func (m *CallMetrics) Record(op Operation, d time.Duration, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.ops[op]
	if !exists {
		stats = &OperationStats{}
		m.ops[op] = stats
	}
	if ok {
		stats.Successes++
	} else {
		stats.Failures++
	}
	stats.Latency.record(d)
}

// Snapshot 返回当前统计的副本
func (m *CallMetrics) Snapshot() map[Operation]OperationStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Operation]OperationStats, len(m.ops))
	for op, stats := range m.ops {
		out[op] = *stats
	}
	return out
}
