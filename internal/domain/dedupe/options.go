package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithClaimed pre-claims keys, typically those of evaluations loaded at startup.
func WithClaimed(keys ...string) Option {
	return func(d *inMemoryDeduper) {
		for _, k := range keys {
			if _, ok := d.seen[k]; !ok {
				d.seen[k] = struct{}{}
				d.size.Add(1)
			}
		}
	}
}
