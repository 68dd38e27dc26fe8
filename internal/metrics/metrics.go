// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes generator counters on a private Prometheus
// registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "webtg"

// Metrics holds every collector the service reports.
type Metrics struct {
	registry *prometheus.Registry

	sitesGenerated prometheus.Counter
	pagesRendered  prometheus.Counter
	enhancements   *prometheus.CounterVec
	otpRequests    *prometheus.CounterVec
	saves          *prometheus.CounterVec
	publishes      *prometheus.CounterVec
}

// New registers all collectors plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sitesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_generated_total",
			Help:      "Sites assembled by the generator.",
		}),
		pagesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Documents in generated sites, aliases included.",
		}),
		enhancements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_enhancements_total",
			Help:      "AI enhancement outcomes by mode.",
		}, []string{"mode"}),
		otpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_requests_total",
			Help:      "OTP send and verify requests by outcome.",
		}, []string{"op", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save-to-catalog attempts by outcome.",
		}, []string{"outcome"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Static hosting publishes by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sitesGenerated,
		m.pagesRendered,
		m.enhancements,
		m.otpRequests,
		m.saves,
		m.publishes,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SiteGenerated counts one assembled site with the given number of pages.
func (m *Metrics) SiteGenerated(pages int) {
	if m == nil {
		return
	}
	m.sitesGenerated.Inc()
	m.pagesRendered.Add(float64(pages))
}

// Enhancement counts one AI enhancement outcome.
func (m *Metrics) Enhancement(mode string) {
	if m == nil {
		return
	}
	m.enhancements.WithLabelValues(mode).Inc()
}

// OTP counts one send or verify request.
func (m *Metrics) OTP(op, outcome string) {
	if m == nil {
		return
	}
	m.otpRequests.WithLabelValues(op, outcome).Inc()
}

// Save counts one save attempt.
func (m *Metrics) Save(outcome string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome).Inc()
}

// Publish counts one publish attempt.
func (m *Metrics) Publish(outcome string) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(outcome).Inc()
}
