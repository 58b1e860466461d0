// Package metrics exports engine statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/voice"
)

// StatsSource is anything that can report engine statistics. *beepscope.Engine implements it.
type StatsSource interface {
	Stats() beepscope.Stats
}

const namespace = "beepscope"

// Collector reads a fresh Stats snapshot on every scrape, so the audio thread never touches
// Prometheus.
type Collector struct {
	src StatsSource

	buffers          *prometheus.Desc
	frames           *prometheus.Desc
	eventsApplied    *prometheus.Desc
	eventsDropped    *prometheus.Desc
	eventsPending    *prometheus.Desc
	telemetryDropped *prometheus.Desc
	telemetryPending *prometheus.Desc
	sounding         *prometheus.Desc
	frequency        *prometheus.Desc
	sampleRate       *prometheus.Desc
}

// NewCollector returns a Collector for src.
func NewCollector(src StatsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		src:              src,
		buffers:          desc("render_buffers_total", "Number of buffers rendered."),
		frames:           desc("render_frames_total", "Number of frames rendered."),
		eventsApplied:    desc("events_applied_total", "Pitch-control events taken off the queue by the audio thread."),
		eventsDropped:    desc("events_dropped_total", "Pitch-control events rejected because the queue was full."),
		eventsPending:    desc("events_pending", "Pitch-control events waiting for the next buffer."),
		telemetryDropped: desc("telemetry_dropped_total", "Telemetry samples dropped because the consumer fell behind."),
		telemetryPending: desc("telemetry_pending", "Telemetry samples waiting to be drained."),
		sounding:         desc("voice_sounding", "1 if the voice is sounding, 0 if idle."),
		frequency:        desc("voice_frequency_hertz", "Frequency of the last note."),
		sampleRate:       desc("sample_rate_hertz", "Sample rate of the current session."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.buffers
	ch <- c.frames
	ch <- c.eventsApplied
	ch <- c.eventsDropped
	ch <- c.eventsPending
	ch <- c.telemetryDropped
	ch <- c.telemetryPending
	ch <- c.sounding
	ch <- c.frequency
	ch <- c.sampleRate
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	sounding := 0.0
	if s.Status == voice.Sounding {
		sounding = 1
	}
	ch <- prometheus.MustNewConstMetric(c.buffers, prometheus.CounterValue, float64(s.Buffers))
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(s.Frames))
	ch <- prometheus.MustNewConstMetric(c.eventsApplied, prometheus.CounterValue, float64(s.EventsApplied))
	ch <- prometheus.MustNewConstMetric(c.eventsDropped, prometheus.CounterValue, float64(s.EventsDropped))
	ch <- prometheus.MustNewConstMetric(c.eventsPending, prometheus.GaugeValue, float64(s.EventsPending))
	ch <- prometheus.MustNewConstMetric(c.telemetryDropped, prometheus.CounterValue, float64(s.TelemetryDropped))
	ch <- prometheus.MustNewConstMetric(c.telemetryPending, prometheus.GaugeValue, float64(s.TelemetryPending))
	ch <- prometheus.MustNewConstMetric(c.sounding, prometheus.GaugeValue, sounding)
	ch <- prometheus.MustNewConstMetric(c.frequency, prometheus.GaugeValue, s.Frequency)
	ch <- prometheus.MustNewConstMetric(c.sampleRate, prometheus.GaugeValue, s.SampleRate)
}

// NewRegistry returns a registry with the engine collector plus the standard Go and process
// collectors.
func NewRegistry(src StatsSource) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCollector(src),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
