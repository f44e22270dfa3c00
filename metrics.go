// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncrpc

import "github.com/prometheus/client_golang/prometheus"

// metrics is the channel's optional prometheus instrumentation. A nil
// *metrics is safe to use: every method no-ops on a nil receiver.
type metrics struct {
	requestsTotal    *prometheus.CounterVec
	callbacksTotal   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	requestsInFlight prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}

	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncrpc",
			Name:      "requests_total",
			Help:      "Completed requests, labeled by outcome.",
		}, []string{"result"}),
		callbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncrpc",
			Name:      "callbacks_total",
			Help:      "Callback invocations serviced during a request, labeled by outcome.",
		}, []string{"result"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncrpc",
			Name:      "errors_total",
			Help:      "Errors returned to callers, labeled by kind.",
		}, []string{"kind"}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "syncrpc",
			Name:      "requests_in_flight",
			Help:      "Requests currently blocked awaiting a terminating Response or Error frame.",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.callbacksTotal, m.errorsTotal, m.requestsInFlight)
	return m
}

func (m *metrics) requestStarted() {
	if m == nil {
		return
	}
	m.requestsInFlight.Inc()
}

func (m *metrics) requestFinished(result string) {
	if m == nil {
		return
	}
	m.requestsInFlight.Dec()
	m.requestsTotal.WithLabelValues(result).Inc()
}

func (m *metrics) callbackInvoked(result string) {
	if m == nil {
		return
	}
	m.callbacksTotal.WithLabelValues(result).Inc()
}

func (m *metrics) errorObserved(kind Kind) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(kind.String()).Inc()
}
