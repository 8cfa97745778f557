package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_Singleton(t *testing.T) {
	if New() != New() {
		t.Fatalf("New returned different instances")
	}
}

func TestObserveSolve(t *testing.T) {
	m := New()
	ok := m.SolvesTotal.WithLabelValues("test_op", StatusOK)
	failed := m.SolvesTotal.WithLabelValues("test_op", StatusError)
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	m.ObserveSolve("test_op", nil)
	m.ObserveSolve("test_op", errors.New("boom"))
	m.ObserveSolve("test_op", errors.New("boom"))

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Fatalf("ok delta %v, want 1", got)
	}
	if got := testutil.ToFloat64(failed) - failedBefore; got != 2 {
		t.Fatalf("error delta %v, want 2", got)
	}
}
