package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the ingestion workflow for a single document reference. It
// builds the state graph (extract → metadata → resolve → split → gate, with
// the gate looping back to split on retries), executes it, and returns the
// final run record. The returned run is non-nil whenever the graph
// completed, even on failure, so callers can inspect the diagnostic ledger;
// the error wraps ErrRunFailed when the run ended in FatalError.
func Execute(ctx context.Context, rt *Runtime, documentRef string) (*Run, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	run := NewRun(documentRef)

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRun, run)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	final, err := extractRun(finalState)
	if err != nil {
		return nil, err
	}

	if final.Failed() {
		return final, fmt.Errorf("%w: %s", ErrRunFailed, final.FatalError)
	}

	return final, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("quarry-ingest")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("metadata", MetadataNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("split", SplitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("gate", GateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("commit", CommitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finish", FinishNode(rt)); err != nil {
		return nil, err
	}

	// Linear spine up to the gate.
	if err := graph.AddEdge("extract", "metadata", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("metadata", "resolve", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("resolve", "split", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("split", "gate", nil); err != nil {
		return nil, err
	}

	// The gate's outcome routes through the pure decision function:
	// retry loops back to the splitter carrying the pending remediation.
	if err := graph.AddEdge("gate", "split", routeIs(rt, RouteRetry)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("gate", "commit", routeIs(rt, RouteDone)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("gate", "finish", routeIs(rt, RouteFailed)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("commit", "finish", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("extract"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finish"); err != nil {
		return nil, err
	}

	return graph, nil
}

// routeIs adapts the router decision into a graph edge condition.
func routeIs(rt *Runtime, route Route) func(state.State) bool {
	return func(s state.State) bool {
		run, err := extractRun(s)
		if err != nil {
			return route == RouteFailed
		}
		return RouteRun(run, rt.Options.MaxRetries) == route
	}
}
