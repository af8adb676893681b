package monitor

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/samwho/ctrsnap/internal/model"
)

// State is one node of the supervisor's state machine.
type State int

const (
	StateBooting State = iota
	StateTesting
	StateRunning
	StateRegenerating
	StateReloading
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "BOOTING"
	case StateTesting:
		return "TESTING"
	case StateRunning:
		return "RUNNING"
	case StateRegenerating:
		return "REGENERATING"
	case StateReloading:
		return "RELOADING"
	case StateShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Config wires the proxy binary's commands and the generation interval
// into one supervisor pass. TestCmd/ReloadCmd/StopCmd are argv slices run
// through Runner; a nil/empty slice skips that step (the default, since
// validating against a real proxy binary is explicitly out of scope —
// these are documented hook points, not a bundled binary invocation).
type Config struct {
	Interval   time.Duration
	ConfigPath string
	TestCmd    []string
	ReloadCmd  []string
	StopCmd    []string
	WatchFiles []string
}

// Generator renders one proxy-dialect configuration from the current
// ingress state; the CLI layer binds this to aggregator.Aggregate composed
// with nginx.Generate or apache.Generate.
type Generator func(ctx context.Context) (string, error)

// Supervisor drives one BOOTING→TESTING→RUNNING→(REGENERATING→TESTING→
// RELOADING→RUNNING)*→SHUTDOWN run.
type Supervisor struct {
	cfg      Config
	generate Generator
	run      Runner
	log      *logrus.Logger
	state    State
	onState  func(State)
}

func New(cfg Config, generate Generator, run Runner, log *logrus.Logger) *Supervisor {
	if run == nil {
		run = ExecRunner
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Supervisor{cfg: cfg, generate: generate, run: run, log: log}
}

// OnState registers an observer called on every state transition, used by
// tests to assert the exact sequence without timing assumptions.
func (s *Supervisor) OnState(f func(State)) {
	s.onState = f
}

func (s *Supervisor) transition(st State) {
	s.state = st
	s.log.WithField("state", st.String()).Debug("supervisor state transition")
	if s.onState != nil {
		s.onState(st)
	}
}

func (s *Supervisor) State() State { return s.state }

// Run executes the full supervisor lifecycle until ctx is cancelled. A
// TESTING failure at boot is fatal: it returns immediately without ever
// reaching RUNNING. A TESTING failure during a later regeneration pass is
// also fatal and terminates the loop without reloading: transitions fail
// fast rather than limping along on a stale config.
func (s *Supervisor) Run(ctx context.Context) error {
	s.transition(StateBooting)

	text, err := s.generate(ctx)
	if err != nil {
		return err
	}
	if err := s.writeAndTest(text, "boot"); err != nil {
		return err
	}
	s.transition(StateRunning)

	watcher, err := s.watch()
	if err != nil {
		s.log.WithError(err).Warn("provider file watch unavailable, falling back to poll only")
	}
	if watcher != nil {
		defer watcher.Close()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	last := text
	for {
		var woken bool
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-ticker.C:
			woken = true
		case ev, ok := <-watcherEvents(watcher):
			if ok && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove)) {
				woken = true
			}
		}
		if !woken {
			continue
		}

		s.transition(StateRegenerating)
		next, err := s.generate(ctx)
		if err != nil {
			s.log.WithError(err).Warn("regeneration failed, keeping previous config live")
			s.transition(StateRunning)
			continue
		}
		if next == last {
			s.transition(StateRunning)
			continue
		}

		if err := s.writeAndTest(next, "reload"); err != nil {
			return err
		}

		s.transition(StateReloading)
		if len(s.cfg.ReloadCmd) > 0 {
			if out, err := s.run(s.cfg.ReloadCmd); err != nil {
				s.log.WithField("output", out).WithError(err).Error("reload command failed")
			}
		}
		last = next
		s.transition(StateRunning)
	}
}

func (s *Supervisor) writeAndTest(text, stage string) error {
	s.transition(StateTesting)
	if s.cfg.ConfigPath != "" {
		if err := os.WriteFile(s.cfg.ConfigPath, []byte(text), 0o644); err != nil {
			return &model.SupervisorTestFailure{Stage: stage, Err: err}
		}
	}
	if len(s.cfg.TestCmd) == 0 {
		return nil
	}
	out, err := s.run(s.cfg.TestCmd)
	if err != nil {
		return &model.SupervisorTestFailure{Stage: stage, Output: out, Err: err}
	}
	return nil
}

func (s *Supervisor) shutdown() {
	s.transition(StateShutdown)
	if len(s.cfg.StopCmd) > 0 {
		if out, err := s.run(s.cfg.StopCmd); err != nil {
			s.log.WithField("output", out).WithError(err).Error("stop command failed")
		}
	}
}

func (s *Supervisor) watch() (*fsnotify.Watcher, error) {
	if len(s.cfg.WatchFiles) == 0 {
		return nil, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, f := range s.cfg.WatchFiles {
		if err := w.Add(f); err != nil {
			s.log.WithError(err).WithField("file", f).Warn("cannot watch provider file")
		}
	}
	return w, nil
}

func watcherEvents(w *fsnotify.Watcher) chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}
