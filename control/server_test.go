package control_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/control"
	"github.com/faiface/beepscope/metrics"
	"github.com/faiface/beepscope/voice"
)

type recordingSink struct {
	mu     sync.Mutex
	events []voice.Event
	err    error
}

func (r *recordingSink) Send(ctx context.Context, e voice.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func newServer(t *testing.T, sink control.EventSink) (*beepscope.Engine, http.Handler) {
	t.Helper()
	e, err := beepscope.New(beepscope.DefaultOptions())
	require.NoError(t, err)
	e.Initialize(48000)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return e, control.New(e, sink, metrics.NewRegistry(e), log).Handler()
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestStatus(t *testing.T) {
	e, h := newServer(t, nil)
	e.Send(voice.NoteOn(81))
	e.Render(make([]float32, 96), 48, 2, 48000)

	rec := do(h, http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var st control.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "notes", st.Mode)
	assert.Equal(t, "sounding", st.Voice)
	assert.Equal(t, 880.0, st.Frequency)
	assert.Equal(t, 48000.0, st.SampleRate)
	assert.Equal(t, uint64(48), st.Frames)
	assert.Equal(t, uint64(1), st.EventsApplied)
}

func TestNotes(t *testing.T) {
	sink := &recordingSink{}
	_, h := newServer(t, sink)

	assert.Equal(t, http.StatusAccepted, do(h, http.MethodPost, "/api/v1/notes/69").Code)
	assert.Equal(t, http.StatusAccepted, do(h, http.MethodDelete, "/api/v1/notes").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/notes/128").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/notes/la").Code)

	assert.Equal(t, []voice.Event{voice.NoteOn(69), voice.NoteOff()}, sink.events)
}

func TestNotesUnavailable(t *testing.T) {
	_, h := newServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodPost, "/api/v1/notes/60").Code)

	_, h = newServer(t, &recordingSink{err: context.Canceled})
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodDelete, "/api/v1/notes").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	e, h := newServer(t, nil)
	e.Render(make([]float32, 10), 10, 1, 48000)

	rec := do(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "beepscope_render_frames_total 10"), body)
	assert.Contains(t, body, "beepscope_voice_sounding 0")
}
