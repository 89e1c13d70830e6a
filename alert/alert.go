package alert

import (
	"fmt"
	"time"
)

// AlertType categorizes performance alerts.
type AlertType int

const (
	// TypeMemoryUsage signals a memory usage threshold was exceeded.
	TypeMemoryUsage AlertType = iota
	// TypeCPUUsage signals a CPU usage threshold was exceeded.
	TypeCPUUsage
	// TypeGCPressure signals excessive garbage collection activity.
	TypeGCPressure
	// TypeThreadCount signals a goroutine or thread count threshold was
	// exceeded.
	TypeThreadCount
	// TypeResponseTime signals degraded response time.
	TypeResponseTime
	// TypeHealthCheck signals a failed health check.
	TypeHealthCheck
	// TypeResourceExhaustion signals exhausted system resources.
	TypeResourceExhaustion
	// TypePerformanceTrend signals a trend toward degradation.
	TypePerformanceTrend
)

func (t AlertType) String() string {
	switch t {
	case TypeMemoryUsage:
		return "memory-usage"
	case TypeCPUUsage:
		return "cpu-usage"
	case TypeGCPressure:
		return "gc-pressure"
	case TypeThreadCount:
		return "thread-count"
	case TypeResponseTime:
		return "response-time"
	case TypeHealthCheck:
		return "health-check"
	case TypeResourceExhaustion:
		return "resource-exhaustion"
	case TypePerformanceTrend:
		return "performance-trend"
	default:
		return "unknown"
	}
}

// Description returns the default human-readable description for the
// alert type.
func (t AlertType) Description() string {
	switch t {
	case TypeMemoryUsage:
		return "high memory usage detected"
	case TypeCPUUsage:
		return "high CPU usage detected"
	case TypeGCPressure:
		return "excessive garbage collection activity"
	case TypeThreadCount:
		return "high number of threads detected"
	case TypeResponseTime:
		return "response time degraded"
	case TypeHealthCheck:
		return "health check failed"
	case TypeResourceExhaustion:
		return "system resources are exhausted"
	case TypePerformanceTrend:
		return "performance trend indicates degradation"
	default:
		return "performance degradation detected"
	}
}

// Critical reports whether the alert type is critical by nature,
// independent of the triggering metric value.
func (t AlertType) Critical() bool {
	switch t {
	case TypeResourceExhaustion, TypeHealthCheck:
		return true
	default:
		return false
	}
}

// Immediate reports whether the alert type requires immediate
// attention. Immediate types are the ones a Policy may forward to a
// breaker as synthetic failures.
func (t AlertType) Immediate() bool {
	switch t {
	case TypeResourceExhaustion, TypeHealthCheck, TypeMemoryUsage:
		return true
	default:
		return false
	}
}

// RecommendedAction returns the operator guidance for the alert type.
func (t AlertType) RecommendedAction() string {
	switch t {
	case TypeMemoryUsage:
		return "increase heap size or investigate memory leaks"
	case TypeCPUUsage:
		return "investigate high CPU usage patterns"
	case TypeGCPressure:
		return "tune GC settings or investigate allocation patterns"
	case TypeThreadCount:
		return "investigate thread usage and potential leaks"
	case TypeResponseTime:
		return "investigate response time degradation"
	case TypeHealthCheck:
		return "investigate system health and restore service"
	case TypeResourceExhaustion:
		return "free up or scale system resources"
	case TypePerformanceTrend:
		return "investigate performance trends and plan optimization"
	default:
		return "investigate and take appropriate action"
	}
}

// Severity grades how far past its thresholds a metric has gone.
type Severity int

const (
	// SeverityInfo is below the warning threshold.
	SeverityInfo Severity = iota
	// SeverityWarning is at or past the warning threshold.
	SeverityWarning
	// SeverityCritical is at or past the critical threshold.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "info"
	}
}

// DetermineSeverity grades value against warning and critical
// thresholds.
func DetermineSeverity(value, warning, critical float64) Severity {
	switch {
	case value >= critical:
		return SeverityCritical
	case value >= warning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Alert is a performance threshold violation reported by an external
// monitoring collaborator.
type Alert struct {
	Type        AlertType
	Severity    Severity
	Message     string
	MetricValue float64
	Threshold   float64
	Time        time.Time
}

// New creates an alert with an explicit severity and message.
func New(t AlertType, severity Severity, message string, value, threshold float64, now time.Time) Alert {
	if message == "" {
		message = t.Description()
	}
	return Alert{
		Type:        t,
		Severity:    severity,
		Message:     message,
		MetricValue: value,
		Threshold:   threshold,
		Time:        now,
	}
}

// MemoryUsage creates a memory usage alert from a usage ratio in
// [0, 1]. Warning at 85%, critical at 95%.
func MemoryUsage(usage float64, now time.Time) Alert {
	return New(TypeMemoryUsage,
		DetermineSeverity(usage, 0.85, 0.95),
		fmt.Sprintf("high memory usage detected: %.1f%%", usage*100),
		usage, 0.8, now)
}

// CPUUsage creates a CPU usage alert from a usage ratio in [0, 1].
// Warning at 80%, critical at 95%.
func CPUUsage(usage float64, now time.Time) Alert {
	return New(TypeCPUUsage,
		DetermineSeverity(usage, 0.8, 0.95),
		fmt.Sprintf("high CPU usage detected: %.1f%%", usage*100),
		usage, 0.85, now)
}

// GCPressure creates a garbage collection alert from the percentage of
// time spent in GC. Warning at 10%, critical at 20%.
func GCPressure(gcTimePercent float64, now time.Time) Alert {
	return New(TypeGCPressure,
		DetermineSeverity(gcTimePercent, 10.0, 20.0),
		fmt.Sprintf("high garbage collection activity: %.1f%% of time", gcTimePercent),
		gcTimePercent, 5.0, now)
}

// ThresholdExcess returns how far the metric value exceeds the
// threshold, as a percentage of the threshold. Zero when the threshold
// itself is zero.
func (a Alert) ThresholdExcess() float64 {
	if a.Threshold == 0 {
		return 0
	}
	return (a.MetricValue - a.Threshold) / a.Threshold * 100
}

// Critical reports whether the alert severity is critical.
func (a Alert) Critical() bool {
	return a.Severity == SeverityCritical
}

func (a Alert) String() string {
	return fmt.Sprintf("%s alert [%s]: %s (value: %.2f, threshold: %.2f, excess: %+.1f%%)",
		a.Severity, a.Type, a.Message, a.MetricValue, a.Threshold, a.ThresholdExcess())
}
