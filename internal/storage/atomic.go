package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FailureKind classifies where an atomic update failed.
type FailureKind string

const (
	// WriteFailed means the staged write never landed; the final key is
	// untouched.
	WriteFailed FailureKind = "write_failed"
	// PromoteFailed means the staged write landed but the copy to the final
	// key did not complete. The final key still holds its previous content.
	PromoteFailed FailureKind = "promote_failed"
)

// StoreError reports a failed atomic update.
type StoreError struct {
	Kind FailureKind
	Key  string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("atomic update of %s: %s: %v", e.Key, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Content types for published artifacts.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

// AtomicStore performs crash-safe create-or-replace of named objects using a
// stage-then-promote protocol: new content is written under a temporary key,
// then copied over the final key in a single backend-side replace. A reader
// of the final key observes either the old content or the new content, never
// a partial write.
type AtomicStore struct {
	api      ObjectAPI
	log      zerolog.Logger
	disabled bool
}

// NewAtomicStore wraps a raw object client. When disabled is true every
// update is a no-op that reports success, which lets orchestration run
// without live credentials.
func NewAtomicStore(api ObjectAPI, disabled bool, log zerolog.Logger) *AtomicStore {
	return &AtomicStore{
		api:      api,
		disabled: disabled,
		log:      log.With().Str("component", "atomicstore").Logger(),
	}
}

// Update replaces the content at key, or leaves it completely unchanged on
// failure. Orphaned temporary objects are possible when cleanup fails; they
// are harmless and only ever logged.
func (s *AtomicStore) Update(ctx context.Context, key string, body []byte, contentType string) error {
	if s.disabled {
		s.log.Debug().Str("key", key).Msg("store disabled, skipping update")
		return nil
	}

	tmpKey := fmt.Sprintf("%s.tmp.%s", key, uuid.NewString())

	if err := s.api.Put(ctx, tmpKey, body, contentType); err != nil {
		s.cleanup(ctx, tmpKey)
		return &StoreError{Kind: WriteFailed, Key: key, Err: err}
	}

	// The copy is the atomic replace: the backend either completes it or
	// leaves the destination untouched.
	if err := s.api.Copy(ctx, tmpKey, key); err != nil {
		s.cleanup(ctx, tmpKey)
		return &StoreError{Kind: PromoteFailed, Key: key, Err: err}
	}

	// The promote already succeeded; a failed temp delete leaves a harmless
	// orphan and must not change the reported outcome.
	if err := s.api.Delete(ctx, tmpKey); err != nil {
		s.log.Warn().Str("key", tmpKey).Err(err).Msg("temp object cleanup failed")
	}

	s.log.Info().Str("key", key).Int("bytes", len(body)).Msg("atomic update complete")
	return nil
}

// cleanup deletes a staged object best-effort after a failed operation.
func (s *AtomicStore) cleanup(ctx context.Context, tmpKey string) {
	exists, err := s.api.Exists(ctx, tmpKey)
	if err != nil {
		s.log.Warn().Str("key", tmpKey).Err(err).Msg("temp object existence check failed")
		return
	}
	if !exists {
		return
	}
	if err := s.api.Delete(ctx, tmpKey); err != nil {
		s.log.Warn().Str("key", tmpKey).Err(err).Msg("temp object cleanup failed")
	}
}

// UpdateJSON marshals v and atomically replaces the content at key.
func (s *AtomicStore) UpdateJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Update(ctx, key, body, ContentTypeJSON)
}

// UpdateCSV atomically replaces the content at key with CSV text.
func (s *AtomicStore) UpdateCSV(ctx context.Context, key, csvText string) error {
	return s.Update(ctx, key, []byte(csvText), ContentTypeCSV)
}
