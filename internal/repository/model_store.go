package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"StockPredict/internal/domain/models"
	domrepo "StockPredict/internal/domain/repository"
	domsvc "StockPredict/internal/domain/service"
	applogger "StockPredict/pkg/logger"
)

// FileModelStore loads the model artifact from disk at most once per process
// and hands out the same handle afterwards. A failed load is final as well:
// the store stays Absent and keeps returning the original error. There is no
// reload path; a changed artifact needs a restart.
type FileModelStore struct {
	dir    string
	path   string
	decode domsvc.Decoder
	l      *applogger.Logger
	m      domrepo.Metrics

	mu          sync.Mutex
	state       models.ModelState
	handle      domsvc.ModelHandle
	err         error
	desc        models.ModelDescriptor
	fingerprint string
	loadedAt    time.Time
	loads       int
}

func NewFileModelStore(dir, file string, decode domsvc.Decoder) *FileModelStore {
	return &FileModelStore{
		dir:    dir,
		path:   filepath.Join(dir, file),
		decode: decode,
		l:      applogger.Nop(),
		state:  models.ModelUnloaded,
	}
}

// SetLogger injects a structured logger.
func (s *FileModelStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l.With(applogger.String("component", "model_store"))
	}
}

// SetMetrics injects a metrics recorder.
func (s *FileModelStore) SetMetrics(m domrepo.Metrics) { s.m = m }

// Model returns the cached handle, loading it on the first call.
func (s *FileModelStore) Model(_ context.Context) (domsvc.ModelHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.ModelUnloaded {
		s.load()
	}
	return s.handle, s.err
}

// Preload forces the first load and reports its outcome.
func (s *FileModelStore) Preload(ctx context.Context) error {
	_, err := s.Model(ctx)
	return err
}

// Info describes the current state without triggering a load.
func (s *FileModelStore) Info() models.ModelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := models.ModelInfo{
		Path:        s.path,
		State:       s.state,
		Descriptor:  s.desc,
		Fingerprint: s.fingerprint,
		LoadedAt:    s.loadedAt,
	}
	if s.err != nil {
		info.Error = s.err.Error()
	}
	return info
}

// Path is where the artifact is expected.
func (s *FileModelStore) Path() string { return s.path }

// Loads counts decode attempts.
func (s *FileModelStore) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// load runs with s.mu held.
func (s *FileModelStore) load() {
	start := time.Now()
	handle, err := s.readAndDecode()
	if err != nil {
		s.state = models.ModelAbsent
		s.err = err
		s.l.Error("model unavailable, prediction disabled",
			applogger.String("path", s.path),
			applogger.Error(err),
		)
	} else {
		s.state = models.ModelLoaded
		s.handle = handle
		s.loadedAt = time.Now()
		s.l.Info("model loaded",
			applogger.String("path", s.path),
			applogger.String("kind", s.desc.Kind),
			applogger.Strings("features", s.desc.Features),
			applogger.Time("loaded_at", s.loadedAt),
			applogger.String("fingerprint", s.fingerprint),
			applogger.Duration("took_ms", time.Since(start)),
		)
	}
	if s.m != nil {
		s.m.RecordModelState(s.state)
		s.m.RecordLatency("model_load", time.Since(start).Seconds())
	}
}

func (s *FileModelStore) readAndDecode() (h domsvc.ModelHandle, err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create model directory %s: %w", domsvc.ErrModelUnavailable, s.dir, err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: model file not found at %s", domsvc.ErrModelUnavailable, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domsvc.ErrModelUnavailable, s.path, err)
	}

	s.loads++
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = fmt.Errorf("%w: decode %s: %v", domsvc.ErrModelCorrupt, s.path, r)
		}
	}()

	handle, desc, err := s.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domsvc.ErrModelCorrupt, s.path, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: decode %s: decoder returned no handle", domsvc.ErrModelCorrupt, s.path)
	}

	sum := sha256.Sum256(data)
	s.fingerprint = hex.EncodeToString(sum[:])
	s.desc = desc
	return handle, nil
}

var _ domrepo.ModelStore = (*FileModelStore)(nil)
