package workflow

// Route is the router's verdict after a quality gate sweep.
type Route string

// Routes.
const (
	RouteRetry  Route = "RETRY"
	RouteDone   Route = "DONE"
	RouteFailed Route = "FAILED"
)

// Decide is the workflow's single decision point, evaluated after each gate
// sweep. It is a pure function of the run's terminal error, gate verdict,
// and ledger length: fatal errors terminate, a passing sweep advances to
// the sink, a failing sweep retries the splitter while attempts remain.
func Decide(fatalError string, qualityPassed bool, ledgerLen, maxRetries int) Route {
	switch {
	case fatalError != "":
		return RouteFailed
	case qualityPassed:
		return RouteDone
	case ledgerLen < maxRetries:
		return RouteRetry
	default:
		return RouteFailed
	}
}

// RouteRun applies Decide to a run. It does not mutate the run; exhaustion
// is stamped onto FatalError by the finish node, not here.
func RouteRun(r *Run, maxRetries int) Route {
	return Decide(r.FatalError, r.QualityPassed, len(r.Ledger), maxRetries)
}
