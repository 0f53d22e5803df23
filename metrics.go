package realip

// Metrics records resolution outcomes emitted by Resolver.
//
// Every header scan ends in exactly one RecordResolution or RecordNotFound
// call, which makes the number of scans observable.
//
// Implementations should be safe for concurrent use, as a single Resolver
// instance is typically shared across many goroutines.
type Metrics interface {
	// RecordResolution is called when a source yields the client address.
	RecordResolution(source string)
	// RecordInvalid is called when a source is present but holds no valid
	// address and resolution moves on to the next source.
	RecordInvalid(source string)
	// RecordNotFound is called when no source yields an address.
	RecordNotFound()
}

// noopMetrics is the default Metrics implementation when metrics are not
// explicitly configured.
type noopMetrics struct{}

func (noopMetrics) RecordResolution(string) {}

func (noopMetrics) RecordInvalid(string) {}

func (noopMetrics) RecordNotFound() {}
