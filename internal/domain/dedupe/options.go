package dedupe

// defaultMaxSize bounds the dedupe window when no option overrides it.
const defaultMaxSize = 50000

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the size of the dedupe window. A value of zero or below
// switches to unbounded mode with no eviction.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
