package handshake

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mc-mysterria/archive-forum/internal/archive/store"
)

// FlagStorage backs the handshake's winrelay.Storage with the archive's flag
// repository, so the token mirror and completion flag survive a process
// restart the way localStorage survives a reload. Storage is a synchronous
// best-effort surface, so failures are logged and swallowed here rather than
// bubbled into the handshake.
type FlagStorage struct {
	flags  store.Flags
	logger *slog.Logger
}

func NewFlagStorage(flags store.Flags, logger *slog.Logger) *FlagStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlagStorage{flags: flags, logger: logger}
}

func (s *FlagStorage) Get(key string) (string, bool) {
	v, err := s.flags.Get(context.Background(), key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("flag read failed", "key", key, "error", err)
		return "", false
	}
	return v, true
}

func (s *FlagStorage) Set(key, value string) {
	if err := s.flags.Set(context.Background(), key, value); err != nil {
		s.logger.Warn("flag write failed", "key", key, "error", err)
	}
}

func (s *FlagStorage) Delete(key string) {
	if err := s.flags.Delete(context.Background(), key); err != nil {
		s.logger.Warn("flag delete failed", "key", key, "error", err)
	}
}
