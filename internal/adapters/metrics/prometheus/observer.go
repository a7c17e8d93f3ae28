// Package prometheus exports cloudinary call metrics.
package prometheus

import (
	"cloudinary-assets/internal/adapters/storage/cloudinary"
	"errors"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "cloudinary_assets"

// Observer records latency, failures and uploaded bytes of every cloudinary call
type Observer struct {
	callDuration  *promclient.HistogramVec
	callErrors    *promclient.CounterVec
	uploadedBytes promclient.Counter
}

// NewObserver registers the remote call metrics on reg, or on the default registerer when reg is nil.
// Registering twice on the same registerer reuses the existing collectors.
func NewObserver(namespace string, reg promclient.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = promclient.DefaultRegisterer
	}

	callDuration, err := register(reg, promclient.NewHistogramVec(promclient.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Latency of cloudinary API calls.",
		Buckets:   promclient.DefBuckets,
	}, []string{"operation"}))
	if err != nil {
		return nil, fmt.Errorf("register call histogram: %w", err)
	}

	callErrors, err := register(reg, promclient.NewCounterVec(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "remote_call_errors_total",
		Help:      "Count of failed cloudinary API calls.",
	}, []string{"operation"}))
	if err != nil {
		return nil, fmt.Errorf("register call error counter: %w", err)
	}

	uploadedBytes, err := register(reg, promclient.NewCounter(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "uploaded_bytes_total",
		Help:      "Cumulative payload size sent to cloudinary.",
	}))
	if err != nil {
		return nil, fmt.Errorf("register uploaded bytes counter: %w", err)
	}

	return &Observer{
		callDuration:  callDuration,
		callErrors:    callErrors,
		uploadedBytes: uploadedBytes,
	}, nil
}

func register[T promclient.Collector](reg promclient.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are promclient.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

func (o *Observer) ObserveRemoteCall(operation string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.callDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		o.callErrors.WithLabelValues(operation).Inc()
	}
}

func (o *Observer) ObserveUploadedBytes(n int64) {
	if o == nil || n <= 0 {
		return
	}
	o.uploadedBytes.Add(float64(n))
}

// Handler serves the metrics gathered by g, or the default gatherer when g is nil
func Handler(g promclient.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var _ cloudinary.Observer = (*Observer)(nil)
