package observability

import (
	"context"
	"testing"
	"time"
)

type countingSolverHooks struct {
	NoopSolverHooks
	strategies []string
}

func (h *countingSolverHooks) OnSolveComplete(_ context.Context, _, strategy string, _ time.Duration, _ error) {
	h.strategies = append(h.strategies, strategy)
}

type testMotionHooks struct{ NoopMotionHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testAPIHooks struct{ NoopAPIHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Errorf("Solver() = %T, want NoopSolverHooks", Solver())
	}
	if _, ok := Motion().(NoopMotionHooks); !ok {
		t.Errorf("Motion() = %T, want NoopMotionHooks", Motion())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Errorf("API() = %T, want NoopAPIHooks", API())
	}

	ctx := context.Background()
	Solver().OnSolveStart(ctx, "root", 3)
	Solver().OnSolveComplete(ctx, "root", "direct", time.Millisecond, nil)
	Motion().OnMotionSetup(ctx, "a", 2, nil)
	Motion().OnFrames(ctx, 30, 3, time.Millisecond)
	Cache().OnCacheSet(ctx, "solve", 128)
	API().OnResponse(ctx, "POST", "/v1/solve", 200, time.Millisecond)
}

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)

	solver := &countingSolverHooks{}
	SetSolverHooks(solver)
	Solver().OnSolveComplete(context.Background(), "root", "graph", 0, nil)
	if len(solver.strategies) != 1 || solver.strategies[0] != "graph" {
		t.Errorf("strategies = %v, want [graph]", solver.strategies)
	}

	motion := &testMotionHooks{}
	SetMotionHooks(motion)
	if Motion() != motion {
		t.Error("SetMotionHooks() did not register the hooks")
	}
	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks() did not register the hooks")
	}
	api := &testAPIHooks{}
	SetAPIHooks(api)
	if API() != api {
		t.Error("SetAPIHooks() did not register the hooks")
	}

	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Reset() did not restore NoopSolverHooks")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	t.Cleanup(Reset)
	custom := &countingSolverHooks{}
	SetSolverHooks(custom)
	SetSolverHooks(nil)
	if Solver() != custom {
		t.Error("SetSolverHooks(nil) replaced the registered hooks")
	}
}
