package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/drivers"
	"golang.org/x/sync/errgroup"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/control"
	"github.com/faiface/beepscope/logging"
	"github.com/faiface/beepscope/metrics"
	"github.com/faiface/beepscope/midiin"
	"github.com/faiface/beepscope/scope"
	"github.com/faiface/beepscope/speaker"
	"github.com/faiface/beepscope/voice"
)

// dispatchBacklog is how many events the sources can queue ahead of the dispatcher.
const dispatchBacklog = 64

func run(ctx context.Context, a *app, mode beepscope.Mode) error {
	s := a.settings
	log := a.log

	engine, err := beepscope.New(s.EngineOptions(mode))
	if err != nil {
		return err
	}
	dispatcher := beepscope.NewDispatcher(engine, dispatchBacklog)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	player, err := speaker.Open(engine, speaker.Config{
		SampleRate: s.SampleRate(),
		Channels:   s.Audio.Channels,
		BufferSize: s.BufferFrames(),
		Logger:     logging.Module(log, "speaker"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := player.Close(); err != nil {
			log.Error("closing speaker", "error", err)
		}
	}()

	log.Info("engine started",
		"mode", mode.String(),
		"level_dbfs", s.Engine.Level,
		"telemetry", s.Engine.Telemetry)

	var midiIn drivers.In
	if mode == beepscope.ModeNotes && s.MIDI.Port != "" {
		in, closeDriver, err := openMIDIIn(s.MIDI.Port)
		if err != nil {
			return err
		}
		defer closeDriver()
		midiIn = in
	}

	var screen tcell.Screen
	if !s.Scope.Headless {
		if screen, err = tcell.NewScreen(); err != nil {
			return errors.Wrap(err, "failed to open terminal")
		}
		if err := screen.Init(); err != nil {
			return errors.Wrap(err, "failed to open terminal")
		}
		defer screen.Fini()
	}

	ctx, quit := context.WithCancel(ctx)
	defer quit()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })

	if midiIn != nil {
		g.Go(func() error {
			return midiin.Listen(gctx, midiIn, midiin.Decoder{Channel: s.MIDI.Channel}, dispatcher, logging.Module(log, "midi"))
		})
	}

	if s.HTTP.Enabled {
		var events control.EventSink
		if mode == beepscope.ModeNotes {
			events = dispatcher
		}
		server := control.New(engine, events, metrics.NewRegistry(engine), logging.Module(log, "http"))
		g.Go(func() error { return server.Start(s.HTTP.Listen) })
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	consumer := scope.NewConsumer(engine.Telemetry(), s.Engine.Telemetry)
	if s.Scope.Headless {
		sink := newLevelLogger(logging.Module(log, "scope"), engine, int(time.Second/s.Scope.Refresh))
		g.Go(func() error { return consumer.Run(gctx, s.Scope.Refresh, sink) })
		return g.Wait()
	}

	var keys eventSender
	if mode == beepscope.ModeNotes {
		keys = dispatcher
	}
	term := scope.NewTerminal(screen, func() string { return title(engine, s.Engine.Level) })
	g.Go(func() error {
		// leaving the terminal stops everything else
		defer quit()
		return runTerminal(gctx, screen, term, consumer, keys, s.Scope.Refresh)
	})
	return g.Wait()
}

// eventSender is where keyboard notes go. *beepscope.Dispatcher implements it.
type eventSender interface {
	Send(ctx context.Context, e voice.Event) error
}

// runTerminal draws the scope and reads the keyboard until ctx is done or the user quits. Key
// presses are sent to keys; a nil keys ignores them.
func runTerminal(ctx context.Context, screen tcell.Screen, term *scope.Terminal, consumer *scope.Consumer, keys eventSender, refresh time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	keyboard := scope.NewKeyboard()

	g.Go(func() error { return consumer.Run(gctx, refresh, term) })
	g.Go(func() error {
		<-gctx.Done()
		// wake up PollEvent so the keyboard loop can return
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil || gctx.Err() != nil {
				return nil
			}
			e, ok, done := keyboard.Handle(ev)
			if done {
				cancel()
				return nil
			}
			if ok && keys != nil {
				if err := keys.Send(gctx, e); err != nil {
					return nil
				}
			}
		}
	})
	return g.Wait()
}

// title mirrors the waveform window caption, e.g. "Sine 440 Hz -12 dBFS".
func title(e *beepscope.Engine, level float64) string {
	st := e.Stats()
	text := fmt.Sprintf("Sine %.0f Hz %.0f dBFS  [%s]", st.Frequency, level, st.Status)
	if st.TelemetryDropped > 0 {
		text += fmt.Sprintf("  dropped %d", st.TelemetryDropped)
	}
	return text + "  (Esc quits)"
}

// newLevelLogger returns a sink that logs the peak level once every `every` ticks instead of drawing.
func newLevelLogger(log *slog.Logger, e *beepscope.Engine, every int) scope.Sink {
	if every < 1 {
		every = 1
	}
	var (
		ticks int
		peak  float64
		count int
	)
	return scope.SinkFunc(func(samples []float32) {
		for _, v := range samples {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
		count += len(samples)
		ticks++
		if ticks < every {
			return
		}
		st := e.Stats()
		log.Info("level",
			"voice", st.Status.String(),
			"frequency_hz", st.Frequency,
			"peak_dbfs", dbfs(peak),
			"samples", count,
			"dropped", st.TelemetryDropped)
		ticks, peak, count = 0, 0, 0
	})
}

// silenceFloor is reported instead of -Inf for a silent signal.
const silenceFloor = -120.0

func dbfs(peak float64) float64 {
	if peak <= 0 {
		return silenceFloor
	}
	return math.Max(20*math.Log10(peak), silenceFloor)
}
