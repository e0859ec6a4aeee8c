// Package file persists the credential registry as a single JSON or YAML
// document. Every mutation is a locked load, change and atomic rewrite.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/shandysiswandi/twofa/internal/pkg/filelock"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const fileMode fs.FileMode = 0o600

// Store keeps the credential registry in one file, guarded by a sibling
// lock file. The codec follows the file extension.
type Store struct {
	path  string
	codec codec
	lock  *filelock.Locker
	ins   instrument.Instrumentation
}

// NewStore returns a Store for path. lockTimeout bounds how long a caller
// waits for another process holding the registry.
func NewStore(path string, lockTimeout time.Duration, ins instrument.Instrumentation) *Store {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Store{
		path:  path,
		codec: codecFor(path),
		lock:  filelock.New(path, lockTimeout),
		ins:   ins,
	}
}

// Path returns the registry file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := s.ins.Tracer("vault.outbound.file").Start(ctx, name)
	span.SetAttributes(attribute.String("store.codec", s.codec.Name()))
	return ctx, span
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Load reads the registry under a shared lock. A missing or blank file is an
// empty registry; unreadable content is entity.ErrCorruptStore.
func (s *Store) Load(ctx context.Context) (reg *entity.Registry, err error) {
	err = s.View(ctx, func(r *entity.Registry) error {
		reg = r
		return nil
	})
	return reg, err
}

// View runs fn against the registry while holding a shared lock, so no
// writer can replace the file until fn returns. fn's error is returned as is.
func (s *Store) View(ctx context.Context, fn func(reg *entity.Registry) error) (err error) {
	ctx, span := s.startSpan(ctx, "View")
	defer func() { s.endSpan(span, err) }()

	unlock, err := s.lock.RLock(ctx)
	if err != nil {
		return err
	}
	defer s.release(ctx, unlock)

	reg, _, err := s.read()
	if err != nil {
		return err
	}

	return fn(reg)
}

// Update loads the registry under an exclusive lock and runs fn on it. The
// file is rewritten only when fn succeeds and reports a change; otherwise
// it is left untouched. fn's error is returned as is.
func (s *Store) Update(ctx context.Context, fn func(reg *entity.Registry) (bool, error)) (err error) {
	ctx, span := s.startSpan(ctx, "Update")
	defer func() { s.endSpan(span, err) }()

	unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer s.release(ctx, unlock)

	reg, raw, err := s.read()
	if err != nil {
		return err
	}

	changed, err := fn(reg)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Bool("store.changed", changed))
	if !changed {
		return nil
	}

	data, err := encode(s.codec, reg)
	if err != nil {
		return fmt.Errorf("file: encode registry: %w", err)
	}
	if bytes.Equal(data, raw) {
		return nil
	}

	return s.write(data)
}

func (s *Store) read() (*entity.Registry, []byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewRegistry(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("file: read registry: %w", err)
	}

	reg, err := decode(s.codec, data)
	if err != nil {
		return nil, nil, err
	}

	return reg, data, nil
}

func (s *Store) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("file: create directory: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("file: write registry: %w", err)
	}

	if err := os.Chmod(s.path, fileMode); err != nil {
		return fmt.Errorf("file: restrict permissions: %w", err)
	}

	return nil
}

func (s *Store) release(ctx context.Context, unlock func() error) {
	if err := unlock(); err != nil {
		slog.WarnContext(ctx, "failed to release registry lock", "path", s.lock.Path(), "error", err)
	}
}
