package realip

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	resolver := mustNewResolver(t)

	if resolver.PeerFallback() {
		t.Fatal("PeerFallback() = true, want false by default")
	}
	if _, ok := resolver.config.logger.(noopLogger); !ok {
		t.Fatalf("default logger = %T, want noopLogger", resolver.config.logger)
	}
	if _, ok := resolver.config.metrics.(noopMetrics); !ok {
		t.Fatalf("default metrics = %T, want noopMetrics", resolver.config.metrics)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	var nilLogger *capturedLogger
	var nilMetrics *countingMetrics

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "nil logger", opts: []Option{WithLogger(nil)}, wantErr: "logger cannot be nil"},
		{name: "typed nil logger", opts: []Option{WithLogger(nilLogger)}, wantErr: "logger cannot be nil"},
		{name: "nil metrics", opts: []Option{WithMetrics(nil)}, wantErr: "metrics cannot be nil"},
		{name: "typed nil metrics", opts: []Option{WithMetrics(nilMetrics)}, wantErr: "metrics cannot be nil"},
		{name: "nil metrics factory", opts: []Option{WithMetricsFactory(nil)}, wantErr: "metrics factory cannot be nil"},
		{
			name: "metrics factory returns nil",
			opts: []Option{WithMetricsFactory(func() (Metrics, error) { return nil, nil })},
			wantErr: "metrics cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("New() error = %q, want containing %q", err.Error(), tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), "invalid configuration: ") {
				t.Fatalf("New() error = %q, want invalid configuration prefix", err.Error())
			}
		})
	}
}

func TestNew_NilOptionIgnored(t *testing.T) {
	resolver := mustNewResolver(t, nil, WithPeerFallback(true))
	if !resolver.PeerFallback() {
		t.Fatal("PeerFallback() = false, want true")
	}
}

func TestNew_LastOptionWins(t *testing.T) {
	resolver := mustNewResolver(t, PresetDirectConnection(), PresetBehindProxy())
	if resolver.PeerFallback() {
		t.Fatal("PeerFallback() = true, want false")
	}

	resolver = mustNewResolver(t, PresetBehindProxy(), PresetDirectConnection())
	if !resolver.PeerFallback() {
		t.Fatal("PeerFallback() = false, want true")
	}
}

func TestWithMetricsFactory(t *testing.T) {
	t.Run("invoked once after validation", func(t *testing.T) {
		calls := 0
		metrics := newCountingMetrics()

		resolver := mustNewResolver(t, WithMetricsFactory(func() (Metrics, error) {
			calls++
			return metrics, nil
		}))

		if calls != 1 {
			t.Fatalf("factory calls = %d, want 1", calls)
		}
		if resolver.config.metrics != Metrics(metrics) {
			t.Fatalf("metrics = %T, want factory result", resolver.config.metrics)
		}
	})

	t.Run("not invoked when validation fails", func(t *testing.T) {
		calls := 0

		_, err := New(
			WithMetricsFactory(func() (Metrics, error) {
				calls++
				return newCountingMetrics(), nil
			}),
			WithLogger(nil),
		)
		if err == nil {
			t.Fatal("New() error = nil, want error")
		}
		if calls != 0 {
			t.Fatalf("factory calls = %d, want 0", calls)
		}
	})

	t.Run("factory error propagates", func(t *testing.T) {
		factoryErr := errors.New("boom")

		_, err := New(WithMetricsFactory(func() (Metrics, error) {
			return nil, factoryErr
		}))
		if !errors.Is(err, factoryErr) {
			t.Fatalf("New() error = %v, want %v", err, factoryErr)
		}
	})

	t.Run("later WithMetrics disables factory", func(t *testing.T) {
		calls := 0
		metrics := newCountingMetrics()

		resolver := mustNewResolver(t,
			WithMetricsFactory(func() (Metrics, error) {
				calls++
				return newCountingMetrics(), nil
			}),
			WithMetrics(metrics),
		)

		if calls != 0 {
			t.Fatalf("factory calls = %d, want 0", calls)
		}
		if resolver.config.metrics != Metrics(metrics) {
			t.Fatal("metrics is not the WithMetrics value")
		}
	})
}

func TestOptionsFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		set     bool
		want    bool
		wantErr bool
	}{
		{name: "unset", want: false},
		{name: "true", value: "true", set: true, want: true},
		{name: "one", value: "1", set: true, want: true},
		{name: "false", value: "false", set: true, want: false},
		{name: "invalid", value: "maybe", set: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REALIP_PEER_FALLBACK", "")
			os.Unsetenv("REALIP_PEER_FALLBACK")
			if tt.set {
				t.Setenv("REALIP_PEER_FALLBACK", tt.value)
			}

			resolver, err := New(OptionsFromEnv())
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if resolver.PeerFallback() != tt.want {
				t.Fatalf("PeerFallback() = %v, want %v", resolver.PeerFallback(), tt.want)
			}
		})
	}
}
