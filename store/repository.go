package store

import (
	"context"
	"errors"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/internal/log"
)

// DefaultKey is the key under which the state blob is stored.
const DefaultKey = "financechat_data"

// Repository loads and saves the whole AppState as one blob.
type Repository struct {
	store  Store
	key    string
	logger *log.Logger
}

// NewRepository returns a repository storing the state under key in s.
// An empty key means DefaultKey.
func NewRepository(s Store, key string, logger *log.Logger) *Repository {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Repository{store: s, key: key, logger: logger.WithComponent(log.ComponentStorage)}
}

// Load reads the state.
//
// It always returns a usable state. An absent blob or a corrupt store gives an
// empty state, a corrupt blob is logged and read as far as possible. The error
// is a *financechat.PersistenceError when the store itself failed.
func (r *Repository) Load(ctx context.Context) (*financechat.AppState, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return financechat.NewAppState(), nil
	}
	if errors.Is(err, ErrCorrupt) {
		// the blob is lost with the store data, the next save rewrites both.
		r.logger.WarnContext(ctx, "corrupt store, starting empty", log.NewFields().WithOperation(log.OpLoad).WithError(err).ToSlice()...)
		return financechat.NewAppState(), nil
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "cannot read state", log.NewFields().WithOperation(log.OpLoad).WithError(err).ToSlice()...)
		return financechat.NewAppState(), &financechat.PersistenceError{Op: "load", Err: err}
	}

	state, err := financechat.DecodeState(data)
	if err != nil {
		r.logger.WarnContext(ctx, "state partially recovered", log.NewFields().WithOperation(log.OpLoad).WithError(err).ToSlice()...)
	}
	r.logger.DebugContext(ctx, "state loaded", log.FieldKey, r.key, log.FieldCount, state.Len(), log.FieldBytes, len(data))
	return state, nil
}

// Save writes the state. The error is a *financechat.PersistenceError.
func (r *Repository) Save(ctx context.Context, s *financechat.AppState) error {
	data, err := financechat.EncodeState(s)
	if err == nil {
		err = r.store.Put(ctx, r.key, data)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "cannot save state", log.NewFields().WithOperation(log.OpSave).WithError(err).ToSlice()...)
		return &financechat.PersistenceError{Op: "save", Err: err}
	}
	r.logger.DebugContext(ctx, "state saved", log.FieldKey, r.key, log.FieldBytes, len(data))
	return nil
}

// Clear deletes the stored state.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return &financechat.PersistenceError{Op: "clear", Err: err}
	}
	return nil
}
