package repository

// Option applies a configuration option to the CohortStore.
type Option func(*CohortStore)

// WithMinGroupSize sets the minimum cohort size exposed by aggregate reads.
func WithMinGroupSize(size int) Option {
	return func(s *CohortStore) {
		if size > 0 {
			s.minGroupSize = size
		}
	}
}
