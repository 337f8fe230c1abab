package utils

import (
	"errors"
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики платежей
	PaymentsRecorded  int64
	PaymentsRejected  int64
	AllocatedMinor    int64 // сумма зачислений в минимальных единицах
	AbsorbedMinor     int64 // переплата, не распределенная ни на одну строку
	OverdueFlips      int64
	GateTransitions   int64
	Conflicts         int64
	LastPaymentTime   time.Time
	LastSweepTime     time.Time
	LastSweepProjects int64

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64

	// известные виды ошибок, по которым группируется ErrorTypes
	errorKinds []error
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics()
	})
	return metrics
}

// NewMetrics создает отдельный экземпляр метрик (для тестов)
func NewMetrics() *Metrics {
	return &Metrics{
		ErrorTypes: make(map[string]int64),
	}
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if err != nil {
		m.FailedRequests++
		m.recordError(err)
	}
}

// RecordPayment записывает результат регистрации платежа
func (m *Metrics) RecordPayment(allocated, absorbed int64, flips int, gateFired bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.PaymentsRejected++
		m.recordError(err)
		return
	}

	m.PaymentsRecorded++
	m.AllocatedMinor += allocated
	m.AbsorbedMinor += absorbed
	m.OverdueFlips += int64(flips)
	if gateFired {
		m.GateTransitions++
	}
	m.LastPaymentTime = time.Now()
}

// RecordConflict записывает конфликт параллельного изменения графика
func (m *Metrics) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conflicts++
}

// RecordSweep записывает результат проверки просрочек
func (m *Metrics) RecordSweep(projects int, flips int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastSweepTime = time.Now()
	m.LastSweepProjects = int64(projects)
	m.OverdueFlips += int64(flips)
	if err != nil {
		m.recordError(err)
	}
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordError(err)
}

// RegisterErrorKinds задает виды ошибок для группировки в ErrorTypes.
// Ошибка учитывается под текстом первого вида, для которого выполняется errors.Is,
// остальные попадают в "other".
func (m *Metrics) RegisterErrorKinds(kinds ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kind := range kinds {
		registered := false
		for _, known := range m.errorKinds {
			if known == kind {
				registered = true
				break
			}
		}
		if !registered {
			m.errorKinds = append(m.errorKinds, kind)
		}
	}
}

// recordError вызывается под блокировкой
func (m *Metrics) recordError(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()
	m.ErrorTypes[m.errorKind(err)]++
}

func (m *Metrics) errorKind(err error) string {
	if err == nil {
		return "unknown"
	}
	for _, kind := range m.errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "other"
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":      m.TotalRequests,
		"failed_requests":     m.FailedRequests,
		"average_latency":     m.AverageLatency.String(),
		"payments_recorded":   m.PaymentsRecorded,
		"payments_rejected":   m.PaymentsRejected,
		"allocated_minor":     m.AllocatedMinor,
		"absorbed_minor":      m.AbsorbedMinor,
		"overdue_flips":       m.OverdueFlips,
		"gate_transitions":    m.GateTransitions,
		"conflicts":           m.Conflicts,
		"last_payment_time":   m.LastPaymentTime,
		"last_sweep_time":     m.LastSweepTime,
		"last_sweep_projects": m.LastSweepProjects,
		"error_count":         m.ErrorCount,
		"last_error_time":     m.LastErrorTime,
		"error_types":         errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.PaymentsRecorded = 0
	m.PaymentsRejected = 0
	m.AllocatedMinor = 0
	m.AbsorbedMinor = 0
	m.OverdueFlips = 0
	m.GateTransitions = 0
	m.Conflicts = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
