package app

import (
	"context"
	"fmt"
	"time"

	"github.com/barryq93/promPGRestore/internal/types"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	MetricName = "pg_database_size_restore"
	metricHelp = "database size of backup restore"

	defaultPushTimeout = 30 * time.Second
)

// Reporter delivers one sample to the metrics gateway.
type Reporter interface {
	Report(ctx context.Context, sample types.MetricSample) error
}

// PushReporter pushes samples to a Prometheus Pushgateway with add semantics.
type PushReporter struct {
	url     string
	timeout time.Duration
	client  push.HTTPDoer
}

type PushOption func(*PushReporter)

func WithPushTimeout(d time.Duration) PushOption {
	return func(r *PushReporter) { r.timeout = d }
}

// WithHTTPDoer replaces the default heimdall client.
func WithHTTPDoer(c push.HTTPDoer) PushOption {
	return func(r *PushReporter) { r.client = c }
}

func NewPushReporter(url string, opts ...PushOption) *PushReporter {
	r := &PushReporter{url: url, timeout: defaultPushTimeout}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = httpclient.NewClient(
			httpclient.WithHTTPTimeout(r.timeout),
			httpclient.WithRetryCount(0),
		)
	}
	return r
}

func (r *PushReporter) Report(ctx context.Context, sample types.MetricSample) error {
	registry := prometheus.NewRegistry()
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricName,
			Help: metricHelp,
		},
		[]string{"hostname"},
	)
	if err := registry.Register(gauge); err != nil {
		return fmt.Errorf("%w: registering gauge: %v", types.ErrPush, err)
	}
	gauge.WithLabelValues(sample.Hostname).Set(sample.Value)

	pusher := push.New(r.url, sample.Job).Gatherer(registry).Client(r.client)
	for name, value := range sample.GroupingKey {
		pusher = pusher.Grouping(name, value)
	}
	if err := pusher.AddContext(ctx); err != nil {
		return fmt.Errorf("%w: cannot push to pushgateway: %v", types.ErrPush, err)
	}
	return nil
}
