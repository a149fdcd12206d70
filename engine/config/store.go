package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/spf13/viper"
)

// ErrKeyNotFound is returned by Lookup when neither the file nor the environment sets a key.
var ErrKeyNotFound = errors.New("config key not found")

// store is the implementation of the Store interface.
type store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string

	envPrefix string
	autoSave  bool
	workers   int
	logger    *slog.Logger

	// pool runs file writes off the caller's thread; pending tracks writes that have not finished.
	pool    worker.DynamicWorkerPool
	pending sync.WaitGroup
	nextID  int
	lastErr error
	closed  bool
}

// Store is a persisted key-value store for add-on settings, organized in sections (one per add-on).
// Values come from a TOML file and can be overridden by environment variables named
// <PREFIX>_<SECTION>_<KEY>. Writes are persisted asynchronously on a worker pool.
// A Store is safe for concurrent use.
type Store interface {
	// Int returns an integer setting.
	//
	// Parameters:
	//   - section: the section name (e.g. "history_window")
	//   - key: the key within the section
	//
	// Returns:
	//   - int: the value
	//   - bool: true if the key is set
	Int(section, key string) (int, bool)

	// SetInt sets an integer setting and, with auto-save enabled, schedules a write.
	SetInt(section, key string, value int)

	// String returns a string setting.
	//
	// Returns:
	//   - string: the value
	//   - bool: true if the key is set
	String(section, key string) (string, bool)

	// SetString sets a string setting and, with auto-save enabled, schedules a write.
	SetString(section, key, value string)

	// Lookup returns the raw value of a setting.
	//
	// Returns:
	//   - any: the value as decoded from the file or environment
	//   - error: ErrKeyNotFound if the key is not set
	Lookup(section, key string) (any, error)

	// Save schedules a write of all settings to the store's file.
	Save()

	// Flush blocks until every scheduled write has finished.
	//
	// Returns:
	//   - error: the first write error since the previous Flush, if any
	Flush() error

	// Path returns the file the store persists to.
	Path() string

	// Close flushes pending writes and stops the worker pool. Safe to call multiple times.
	//
	// Returns:
	//   - error: the result of the final Flush
	Close() error
}

var _ Store = &store{}

// Open creates a store backed by the TOML file at path. A missing file yields an empty store
// that is created on the first save.
//
// Parameters:
//   - path: the TOML file path
//   - options: functional options (environment prefix, auto-save, logger, workers)
//
// Returns:
//   - Store: the opened store
//   - error: error if the file exists but cannot be read or parsed
func Open(path string, options ...StoreBuilderOption) (Store, error) {
	s := &store{
		path:      path,
		envPrefix: "OXY",
		autoSave:  true,
		workers:   1,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.logger == nil {
		s.logger = common.Logger()
	}

	s.v = viper.New()
	s.v.SetConfigFile(path)
	s.v.SetConfigType("toml")
	if s.envPrefix != "" {
		s.v.SetEnvPrefix(s.envPrefix)
		s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		s.v.AutomaticEnv()
	}

	if err := s.v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		s.logger.Info("config file not found, starting empty", "path", path)
	} else {
		s.logger.Info("config loaded", "path", path)
	}

	s.pool = worker.NewDynamicWorkerPool(s.workers, 64, time.Second)
	return s, nil
}

func configKey(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

func (s *store) Int(section, key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := configKey(section, key)
	if !s.v.IsSet(k) {
		return 0, false
	}
	return s.v.GetInt(k), true
}

func (s *store) SetInt(section, key string, value int) {
	s.set(configKey(section, key), value)
}

func (s *store) String(section, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := configKey(section, key)
	if !s.v.IsSet(k) {
		return "", false
	}
	return s.v.GetString(k), true
}

func (s *store) SetString(section, key, value string) {
	s.set(configKey(section, key), value)
}

func (s *store) Lookup(section, key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := configKey(section, key)
	if !s.v.IsSet(k) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, k)
	}
	return s.v.Get(k), nil
}

func (s *store) set(key string, value any) {
	s.mu.Lock()
	s.v.Set(key, value)
	s.mu.Unlock()
	s.logger.Debug("config value set", "key", key)
	if s.autoSave {
		s.Save()
	}
}

func (s *store) Save() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("config save after close ignored", "path", s.path)
		return
	}
	s.nextID++
	id := s.nextID
	s.pending.Add(1)
	s.mu.Unlock()

	s.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer s.pending.Done()
			s.mu.Lock()
			defer s.mu.Unlock()
			if err := s.v.WriteConfigAs(s.path); err != nil {
				s.logger.Warn("config write failed", "path", s.path, "error", err)
				if s.lastErr == nil {
					s.lastErr = fmt.Errorf("write config %q: %w", s.path, err)
				}
				return nil, err
			}
			s.logger.Debug("config written", "path", s.path, "task", id)
			return nil, nil
		},
	})
}

func (s *store) Flush() error {
	s.pending.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

func (s *store) Path() string {
	return s.path
}

func (s *store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.Flush()
	s.pool.Stop()
	return err
}
