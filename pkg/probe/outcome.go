package probe

// Outcome is the overall verdict of a health run.
type Outcome string

const (
	// OutcomeHealthy means every check passed and the service holds data.
	OutcomeHealthy Outcome = "healthy"
	// OutcomeUnhealthy means the service answered but some check failed,
	// or a required data value could not be determined.
	OutcomeUnhealthy Outcome = "unhealthy"
	// OutcomeUnreachable means no HTTP check received any response.
	OutcomeUnreachable Outcome = "unreachable"
	// OutcomeEmpty means every check passed but the service holds no data.
	OutcomeEmpty Outcome = "empty"
)

const (
	ExitHealthy     = 0
	ExitUnhealthy   = 1
	ExitUnreachable = 2
	ExitEmpty       = 3
)

func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeHealthy:
		return ExitHealthy
	case OutcomeUnreachable:
		return ExitUnreachable
	case OutcomeEmpty:
		return ExitEmpty
	default:
		return ExitUnhealthy
	}
}

// Classify derives the outcome from HTTP results and dependency results.
// Only HTTP results decide reachability; skipped results never count as a
// response.
func Classify(results, dependencies []CheckResult) Outcome {
	attempted := 0
	responded := 0
	for _, r := range results {
		if r.Skipped {
			continue
		}
		attempted++
		if r.ObservedStatus != nil {
			responded++
		}
	}

	if attempted > 0 && responded == 0 {
		return OutcomeUnreachable
	}

	if !allPassed(results) || !allPassed(dependencies) {
		return OutcomeUnhealthy
	}

	empty := false
	for _, r := range results {
		if r.Measure == nil || !r.Measure.Required {
			continue
		}
		if !r.Measure.Found {
			return OutcomeUnhealthy
		}
		if r.Measure.Value <= 0 {
			empty = true
		}
	}

	if empty {
		return OutcomeEmpty
	}
	return OutcomeHealthy
}

func allPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
