package guard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/guardrail/classify"
	"github.com/jonwraymond/guardrail/recovery"
)

// Reporter files incidents for failures the pipeline could not recover
// and returns the tracking id assigned to each. Implementations own
// persistence and routing; the pipeline only forwards context and
// records the returned id.
type Reporter interface {
	Report(ctx context.Context, cls classify.Classification, rec recovery.Result) (string, error)
}

// Incident is one filed report.
type Incident struct {
	ID             string
	Classification classify.Classification
	Recovery       recovery.Result
	ReportedAt     time.Time
}

// MemoryReporter keeps incidents in memory. Suitable for tests and as
// the default when no external reporter is wired. Safe for concurrent
// use.
type MemoryReporter struct {
	mu        sync.Mutex
	incidents []Incident
}

// NewMemoryReporter creates an empty in-memory reporter.
func NewMemoryReporter() *MemoryReporter {
	return &MemoryReporter{}
}

// Report files the incident under a fresh id.
func (r *MemoryReporter) Report(ctx context.Context, cls classify.Classification, rec recovery.Result) (string, error) {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, Incident{
		ID:             id,
		Classification: cls,
		Recovery:       rec,
		ReportedAt:     time.Now(),
	})
	return id, nil
}

// Incidents returns a copy of all filed incidents in filing order.
func (r *MemoryReporter) Incidents() []Incident {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Incident, len(r.incidents))
	copy(out, r.incidents)
	return out
}
