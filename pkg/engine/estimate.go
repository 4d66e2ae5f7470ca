package engine

// ResetEstimate sets the best- and worst-case totals for a new sort. Strategies
// call it once with their closed-form bounds before the first comparison.
func (e *Engine) ResetEstimate(best, worst int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.estimate.BestCase = e.estimate.Completed + best
	e.estimate.WorstCase = e.estimate.Completed + worst
	e.logger.Debug("estimate", "best", e.estimate.BestCase, "worst", e.estimate.WorstCase)
}

// AdjustEstimate shifts the best- and worst-case totals. A favourable outcome
// that forces an extra comparison raises best; one that proves comparisons
// unnecessary lowers worst.
func (e *Engine) AdjustEstimate(dBest, dWorst int) {
	if dBest == 0 && dWorst == 0 {
		return
	}
	e.mu.Lock()
	e.estimate.BestCase += dBest
	e.estimate.WorstCase += dWorst
	if e.estimate.BestCase > e.estimate.WorstCase {
		e.logger.Warn("estimate crossed", "best", e.estimate.BestCase, "worst", e.estimate.WorstCase)
	}
	e.mu.Unlock()
	e.signal()
}

// Estimate returns the current progress estimate.
func (e *Engine) Estimate() Estimate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estimate
}
