// Package control serves engine status, Prometheus metrics and a small note API over HTTP.
package control

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/voice"
)

// StatsSource reports engine statistics. *beepscope.Engine implements it.
type StatsSource interface {
	Stats() beepscope.Stats
}

// EventSink accepts pitch-control events from request handlers. *beepscope.Dispatcher implements
// it.
type EventSink interface {
	Send(ctx context.Context, e voice.Event) error
}

// Status is the JSON body of GET /api/v1/status.
type Status struct {
	Mode       string  `json:"mode"`
	Voice      string  `json:"voice"`
	Frequency  float64 `json:"frequency_hz"`
	SampleRate float64 `json:"sample_rate_hz"`

	Buffers          uint64 `json:"buffers"`
	Frames           uint64 `json:"frames"`
	EventsApplied    uint64 `json:"events_applied"`
	EventsDropped    uint64 `json:"events_dropped"`
	TelemetryDropped uint64 `json:"telemetry_dropped"`
}

// Server is the HTTP front end. The zero value is not usable; call New.
type Server struct {
	echo   *echo.Echo
	stats  StatsSource
	events EventSink
	log    *slog.Logger
}

// New builds the routes. events may be nil, in which case the note API answers 503.
func New(stats StatsSource, events EventSink, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	s := &Server{
		echo:   echo.New(),
		stats:  stats,
		events: events,
		log:    log,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)
	api.POST("/notes/:note", s.noteOn)
	api.DELETE("/notes", s.noteOff)

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("control server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "control: server failed")
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) getStatus(c echo.Context) error {
	st := s.stats.Stats()
	return c.JSON(http.StatusOK, Status{
		Mode:             st.Mode.String(),
		Voice:            st.Status.String(),
		Frequency:        st.Frequency,
		SampleRate:       st.SampleRate,
		Buffers:          st.Buffers,
		Frames:           st.Frames,
		EventsApplied:    st.EventsApplied,
		EventsDropped:    st.EventsDropped,
		TelemetryDropped: st.TelemetryDropped,
	})
}

func (s *Server) noteOn(c echo.Context) error {
	note, err := strconv.Atoi(c.Param("note"))
	if err != nil || note < 0 || note > 127 {
		return echo.NewHTTPError(http.StatusBadRequest, "note must be a number between 0 and 127")
	}
	return s.send(c, voice.NoteOn(uint8(note)))
}

func (s *Server) noteOff(c echo.Context) error {
	return s.send(c, voice.NoteOff())
}

func (s *Server) send(c echo.Context, e voice.Event) error {
	if s.events == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "this engine does not accept notes")
	}
	if err := s.events.Send(c.Request().Context(), e); err != nil {
		s.log.Warn("note request dropped", "event", e.String(), "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event queue unavailable")
	}
	s.log.Debug("note request", "event", e.String())
	return c.NoContent(http.StatusAccepted)
}
