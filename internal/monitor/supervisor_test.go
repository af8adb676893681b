package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestSupervisorFailsFastOnBootTest(t *testing.T) {
	gen := func(ctx context.Context) (string, error) { return "config-v1", nil }
	run := func(args []string) (string, error) { return "nginx: syntax error", errors.New("exit 1") }

	sup := New(Config{Interval: time.Hour, TestCmd: []string{"nginx", "-t"}}, gen, run, silentLogger())
	err := sup.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateTesting, sup.State())
}

func TestSupervisorReachesRunningWhenBootTestPasses(t *testing.T) {
	gen := func(ctx context.Context) (string, error) { return "config-v1", nil }
	run := func(args []string) (string, error) { return "ok", nil }

	var states []State
	sup := New(Config{Interval: time.Hour, TestCmd: []string{"nginx", "-t"}}, gen, run, silentLogger())
	sup.OnState(func(s State) { states = append(states, s) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sup.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []State{StateBooting, StateTesting, StateRunning, StateShutdown}, states)
}

func TestSupervisorRegeneratesAndReloadsOnChange(t *testing.T) {
	var mu sync.Mutex
	version := 0
	gen := func(ctx context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		version++
		if version == 1 {
			return "config-v1", nil
		}
		return "config-v2", nil
	}
	reloaded := make(chan struct{}, 1)
	run := func(args []string) (string, error) {
		if len(args) > 0 && args[0] == "reload" {
			reloaded <- struct{}{}
		}
		return "ok", nil
	}

	sup := New(Config{Interval: 10 * time.Millisecond, ReloadCmd: []string{"reload"}}, gen, run, silentLogger())

	var states []State
	var smu sync.Mutex
	sup.OnState(func(s State) {
		smu.Lock()
		states = append(states, s)
		smu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	cancel()
	require.NoError(t, <-done)

	smu.Lock()
	defer smu.Unlock()
	assert.Contains(t, states, StateRegenerating)
	assert.Contains(t, states, StateReloading)
}

func TestSupervisorFailsFastOnReloadTest(t *testing.T) {
	genCalls := 0
	gen := func(ctx context.Context) (string, error) {
		genCalls++
		if genCalls == 1 {
			return "config-v1", nil
		}
		return "config-v2", nil
	}
	testCalls := 0
	run := func(args []string) (string, error) {
		testCalls++
		if testCalls == 1 {
			return "ok", nil
		}
		return "broken", errors.New("exit 1")
	}

	sup := New(Config{Interval: 10 * time.Millisecond, TestCmd: []string{"nginx", "-t"}}, gen, run, silentLogger())
	err := sup.Run(context.Background())
	require.Error(t, err)
	assert.GreaterOrEqual(t, testCalls, 2)
}

func TestSupervisorSkipsUnchangedRegeneration(t *testing.T) {
	gen := func(ctx context.Context) (string, error) { return "stable-config", nil }
	var reloadCalls int
	var mu sync.Mutex
	run := func(args []string) (string, error) {
		mu.Lock()
		reloadCalls++
		mu.Unlock()
		return "ok", nil
	}

	sup := New(Config{Interval: 5 * time.Millisecond, ReloadCmd: []string{"reload"}}, gen, run, silentLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	err := sup.Run(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, reloadCalls)
}
