package modkit_test

import (
	"fmt"
	"sync/atomic"

	"github.com/modkit-go/modkit"
)

// Shared fixture types for container and bootstrap tests.

type testLogger struct {
	lines []string
}

func newTestLogger() *testLogger {
	return &testLogger{}
}

func (l *testLogger) Log(line string) {
	l.lines = append(l.lines, line)
}

type testStore struct {
	logger *testLogger
	id     int64
}

type testService struct {
	store *testStore
}

var storeCounter atomic.Int64

// loggerProvider registers a singleton *testLogger.
func loggerProvider() *modkit.Provider {
	return modkit.Injectable(func(*modkit.Container) (*testLogger, error) {
		return newTestLogger(), nil
	})
}

// storeProvider registers a *testStore depending on *testLogger. Each factory
// invocation gets a fresh id so tests can tell instances apart.
func storeProvider(opts ...modkit.ProvideOption) *modkit.Provider {
	return modkit.Injectable(func(c *modkit.Container) (*testStore, error) {
		logger, err := modkit.Resolve[*testLogger](c)
		if err != nil {
			return nil, err
		}
		return &testStore{logger: logger, id: storeCounter.Add(1)}, nil
	}, opts...)
}

// serviceProvider registers a *testService depending on *testStore.
func serviceProvider(opts ...modkit.ProvideOption) *modkit.Provider {
	return modkit.Injectable(func(c *modkit.Container) (*testService, error) {
		store, err := modkit.Resolve[*testStore](c)
		if err != nil {
			return nil, err
		}
		return &testService{store: store}, nil
	}, opts...)
}

// failingProvider registers a provider whose factory always fails.
func failingProvider(err error) *modkit.Provider {
	return modkit.Injectable(func(*modkit.Container) (*testService, error) {
		return nil, err
	})
}

// cycleProviders returns two providers that depend on each other.
func cycleProviders() (*modkit.Provider, *modkit.Provider) {
	a := modkit.Injectable(func(c *modkit.Container) (*testStore, error) {
		if _, err := modkit.Resolve[*testService](c); err != nil {
			return nil, err
		}
		return &testStore{}, nil
	})
	b := modkit.Injectable(func(c *modkit.Container) (*testService, error) {
		store, err := modkit.Resolve[*testStore](c)
		if err != nil {
			return nil, err
		}
		return &testService{store: store}, nil
	})
	return a, b
}

func registerAll(c *modkit.Container, providers ...*modkit.Provider) error {
	for _, p := range providers {
		if err := c.Register(p); err != nil {
			return fmt.Errorf("register %s: %w", p.Token(), err)
		}
	}
	return nil
}
