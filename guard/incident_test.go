package guard

import (
	"context"
	"testing"

	"github.com/jonwraymond/guardrail/classify"
	"github.com/jonwraymond/guardrail/recovery"
)

func TestMemoryReporter(t *testing.T) {
	r := NewMemoryReporter()

	cls := classify.Classification{Type: classify.TypeIO, Recoverability: classify.Permanent}
	rec := recovery.Result{Strategy: recovery.StrategyNone}

	id1, err := r.Report(context.Background(), cls, rec)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	id2, err := r.Report(context.Background(), cls, rec)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if id1 == "" || id2 == "" {
		t.Error("Report returned an empty id")
	}
	if id1 == id2 {
		t.Errorf("ids not unique: %q", id1)
	}

	incidents := r.Incidents()
	if len(incidents) != 2 {
		t.Fatalf("Incidents() returned %d, want 2", len(incidents))
	}
	if incidents[0].ID != id1 || incidents[1].ID != id2 {
		t.Error("incidents out of filing order")
	}
	if incidents[0].Classification.Type != classify.TypeIO {
		t.Errorf("stored classification type = %v, want io", incidents[0].Classification.Type)
	}
	if incidents[0].ReportedAt.IsZero() {
		t.Error("ReportedAt is zero")
	}
}
