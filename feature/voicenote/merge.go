package voicenote

import (
	"fmt"

	"messenger-core/core/identity"

	"go.uber.org/zap"
)

// Merger reconciles two file ids of one voice note.
type Merger struct {
	store    *Store
	registry *identity.Registry[string]
	logger   *zap.Logger
}

// NewMerger creates a merger over store and registry.
func NewMerger(store *Store, registry *identity.Registry[string], logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{store: store, registry: registry, logger: logger}
}

// Merge makes newID the surviving id of oldID. oldID must be stored and
// differ from newID. Repeating a merge is a no-op; merging in the opposite
// direction returns identity.ErrRetired and changes nothing.
func (m *Merger) Merge(newID, oldID string) error {
	if newID == "" || oldID == "" || newID == oldID {
		panic(fmt.Sprintf("voicenote: invalid merge of %q into %q", oldID, newID))
	}
	m.logger.Info("Merge voice notes", zap.String("new_id", newID), zap.String("old_id", oldID))

	old, ok := m.store.Get(oldID)
	if !ok {
		panic(fmt.Sprintf("voicenote: merge of unknown voice note %q", oldID))
	}
	if err := m.registry.Check(oldID, newID); err != nil {
		return fmt.Errorf("failed to merge %s into %s: %w", oldID, newID, err)
	}

	if current, ok := m.store.Get(newID); !ok {
		m.store.Duplicate(newID, oldID)
	} else if old.MimeType != "" && old.MimeType != current.MimeType {
		m.logger.Info("Voice note has changed",
			zap.String("new_id", newID),
			zap.String("old_mime_type", old.MimeType),
			zap.String("new_mime_type", current.MimeType))
	}

	if err := m.registry.Alias(oldID, newID); err != nil {
		m.logger.Warn("Failed to alias voice note", zap.String("new_id", newID), zap.String("old_id", oldID), zap.Error(err))
		return fmt.Errorf("failed to merge %s into %s: %w", oldID, newID, err)
	}
	return nil
}
