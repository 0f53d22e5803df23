package realip

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
)

func mustNewResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()

	resolver, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return resolver
}

func newTestRequest(remoteAddr, path string) *http.Request {
	req := &http.Request{
		RemoteAddr: remoteAddr,
		Header:     make(http.Header),
	}

	if path != "" {
		req.URL = &url.URL{Path: path}
	}

	return req
}

// countingMetrics counts every callback. scans() is the number of completed
// header scans, since each scan ends in exactly one resolution or not-found.
type countingMetrics struct {
	mu          sync.Mutex
	resolutions map[string]int
	invalid     map[string]int
	notFound    int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		resolutions: make(map[string]int),
		invalid:     make(map[string]int),
	}
}

func (m *countingMetrics) RecordResolution(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[source]++
}

func (m *countingMetrics) RecordInvalid(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalid[source]++
}

func (m *countingMetrics) RecordNotFound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notFound++
}

func (m *countingMetrics) scans() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.notFound
	for _, n := range m.resolutions {
		total += n
	}
	return total
}

func (m *countingMetrics) resolutionCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolutions[source]
}

func (m *countingMetrics) invalidCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalid[source]
}

func (m *countingMetrics) notFoundCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notFound
}

type capturedLogEntry struct {
	ctx   context.Context
	msg   string
	attrs map[string]any
}

type capturedLogger struct {
	mu      sync.Mutex
	entries []capturedLogEntry
}

func (l *capturedLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, capturedLogEntry{
		ctx:   ctx,
		msg:   msg,
		attrs: attrsToMap(args),
	})
}

func (l *capturedLogger) snapshot() []capturedLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]capturedLogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func attrsToMap(args []any) map[string]any {
	attrs := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs[key] = args[i+1]
	}
	return attrs
}

func assertAttr(t *testing.T, attrs map[string]any, key string, want any) {
	t.Helper()

	got, ok := attrs[key]
	if !ok {
		t.Fatalf("missing %q attr", key)
	}

	if got != want {
		t.Fatalf("%s attr = %v, want %v", key, got, want)
	}
}
