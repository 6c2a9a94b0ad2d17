package market

// RunningMean is an incremental mean accumulator. The final mean depends only
// on the multiset of observed values, not on observation order, which makes it
// safe to fold batch results in whatever order storage returns them.
type RunningMean struct {
	count int
	mean  float64
}

// Observe folds a single value into the mean.
func (m *RunningMean) Observe(v float64) {
	m.count++
	m.mean += (v - m.mean) / float64(m.count)
}

// Merge folds another accumulator into this one.
func (m *RunningMean) Merge(other RunningMean) {
	if other.count == 0 {
		return
	}
	total := m.count + other.count
	m.mean = (m.mean*float64(m.count) + other.mean*float64(other.count)) / float64(total)
	m.count = total
}

// Mean returns the current mean, or 0 when nothing has been observed.
func (m *RunningMean) Mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.mean
}

// Count returns the number of observed values.
func (m *RunningMean) Count() int { return m.count }
