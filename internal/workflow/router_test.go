package workflow_test

import (
	"testing"

	"github.com/siamdocs/quarry/internal/workflow"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		fatalError    string
		qualityPassed bool
		ledgerLen     int
		maxRetries    int
		want          workflow.Route
	}{
		{"fatal error terminates", "extraction failed", false, 0, 5, workflow.RouteFailed},
		{"fatal error beats passing gate", "commit failed", true, 0, 5, workflow.RouteFailed},
		{"passing sweep commits", "", true, 0, 5, workflow.RouteDone},
		{"passing sweep commits despite ledger", "", true, 3, 5, workflow.RouteDone},
		{"first failure retries", "", false, 1, 5, workflow.RouteRetry},
		{"failure below ceiling retries", "", false, 4, 5, workflow.RouteRetry},
		{"failure at ceiling terminates", "", false, 5, 5, workflow.RouteFailed},
		{"failure above ceiling terminates", "", false, 6, 5, workflow.RouteFailed},
		{"zero retries never loops", "", false, 0, 0, workflow.RouteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.Decide(tt.fatalError, tt.qualityPassed, tt.ledgerLen, tt.maxRetries)
			if got != tt.want {
				t.Errorf("Decide() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRouteRun(t *testing.T) {
	run := workflow.NewRun("doc.txt")
	if got := workflow.RouteRun(run, 5); got != workflow.RouteRetry {
		t.Errorf("fresh failing run = %s, want RETRY", got)
	}

	run.QualityPassed = true
	if got := workflow.RouteRun(run, 5); got != workflow.RouteDone {
		t.Errorf("passing run = %s, want DONE", got)
	}

	run.QualityPassed = false
	for range 5 {
		run.RecordAttempt("bad", "", workflow.Remediation{Action: workflow.ActionRetrySection})
	}
	if got := workflow.RouteRun(run, 5); got != workflow.RouteFailed {
		t.Errorf("exhausted run = %s, want FAILED", got)
	}

	if run.Failed() {
		t.Error("RouteRun must not stamp FatalError")
	}
}
