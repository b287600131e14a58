package voicenote

import (
	"context"
	"fmt"
	"sync"

	"messenger-core/core/actor"
	"messenger-core/core/apperr"
	"messenger-core/core/identity"
	"messenger-core/core/query"
	"messenger-core/core/remote"
	"messenger-core/core/updates"
	"messenger-core/core/wire"

	"go.uber.org/zap"
)

const defaultMimeType = "audio/ogg"

// Manager is the public surface of voice notes. Every method runs its work
// on the owner lane and blocks until it is done, ctx ends or the owner
// closes.
type Manager struct {
	handler  *query.Handler
	lane     *actor.Lane
	store    *Store
	merger   *Merger
	registry *identity.Registry[string]
	logger   *zap.Logger

	mu        sync.RWMutex
	listeners []func(fileID string)
}

// NewManager creates a manager on the handler's lane.
func NewManager(h *query.Handler, registry *identity.Registry[string], logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("voicenote")
	m := &Manager{
		handler:  h,
		lane:     h.Lane(),
		registry: registry,
		logger:   logger,
	}
	m.store = NewStore(logger, m.notifyCompleted)
	m.merger = NewMerger(m.store, registry, logger)
	return m
}

// OnTranscriptionCompleted registers fn to run, on the owner lane, whenever a
// transcription becomes completed.
func (m *Manager) OnTranscriptionCompleted(fn func(fileID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notifyCompleted(fileID string) {
	m.logger.Info("Transcription completed", zap.String("file_id", fileID))
	m.mu.RLock()
	listeners := m.listeners
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(fileID)
	}
}

// RegisterUpdates stores the voice notes carried by incoming messages.
func (m *Manager) RegisterUpdates(r *updates.Router) {
	r.Handle(updates.KindMessage, func(ctx context.Context, u updates.Update) error {
		msg, ok := u.Payload.(*wire.Message)
		if !ok {
			return fmt.Errorf("unexpected message payload %T", u.Payload)
		}
		if msg.Media == nil || msg.Media.FileID == "" {
			return nil
		}
		note := FromDocument(*msg.Media)
		_, err := actor.Go(m.lane, func() (string, error) {
			return m.store.CreateOrUpdate(note, true), nil
		}).Await(ctx)
		return err
	})
}

func (m *Manager) resolve(fileID string) string {
	return m.registry.Resolve(fileID)
}

// Create stores a voice note built from the given fields. A negative
// duration is stored as zero.
func (m *Manager) Create(ctx context.Context, fileID, mimeType string, duration int32, waveform []byte, replace bool) (string, error) {
	if fileID == "" {
		return "", apperr.Validation("File identifier must be non-empty")
	}
	note := VoiceNote{
		FileID:   fileID,
		MimeType: mimeType,
		Duration: max(duration, 0),
		Waveform: waveform,
	}
	return actor.Go(m.lane, func() (string, error) {
		return m.store.CreateOrUpdate(note, replace), nil
	}).Await(ctx)
}

// Get returns the voice note of fileID, following merges.
func (m *Manager) Get(ctx context.Context, fileID string) (VoiceNote, error) {
	return actor.Go(m.lane, func() (VoiceNote, error) {
		v, ok := m.store.Get(m.resolve(fileID))
		if !ok {
			return VoiceNote{}, apperr.NotFound("Voice note not found")
		}
		return v, nil
	}).Await(ctx)
}

// Duration returns the duration of fileID, zero for unknown notes.
func (m *Manager) Duration(ctx context.Context, fileID string) (int32, error) {
	return actor.Go(m.lane, func() (int32, error) {
		v, ok := m.store.Get(m.resolve(fileID))
		if !ok {
			return 0, nil
		}
		return v.Duration, nil
	}).Await(ctx)
}

// TranscriptionInfo returns a copy of the transcription of fileID. With
// allowCreation an empty pending transcription is attached when there is
// none. A nil result means the note has no transcription.
func (m *Manager) TranscriptionInfo(ctx context.Context, fileID string, allowCreation bool) (*TranscriptionInfo, error) {
	return actor.Go(m.lane, func() (*TranscriptionInfo, error) {
		id := m.resolve(fileID)
		if _, ok := m.store.Get(id); !ok {
			return nil, apperr.NotFound("Voice note not found")
		}
		return m.store.transcription(id, allowCreation).clone(), nil
	}).Await(ctx)
}

// Merge makes newID the surviving id of oldID.
func (m *Manager) Merge(ctx context.Context, newID, oldID string) error {
	if newID == "" || oldID == "" {
		return apperr.Validation("File identifier must be non-empty")
	}
	if newID == oldID {
		return apperr.Validation("Cannot merge a voice note with itself")
	}
	_, err := actor.Go(m.lane, func() (struct{}, error) {
		if _, ok := m.store.Get(oldID); !ok {
			return struct{}{}, apperr.NotFound("Voice note not found")
		}
		return struct{}{}, m.merger.Merge(newID, oldID)
	}).Await(ctx)
	return err
}

// InputMedia builds the media used to send fileID. uploaded selects a
// freshly uploaded document, which carries the audio attributes; otherwise
// the document is referenced by id.
func (m *Manager) InputMedia(ctx context.Context, fileID string, uploaded bool) (wire.InputMedia, error) {
	return actor.Go(m.lane, func() (wire.InputMedia, error) {
		v, ok := m.store.Get(m.resolve(fileID))
		if !ok {
			return wire.InputMedia{}, apperr.NotFound("Voice note not found")
		}
		if !uploaded {
			return wire.InputMedia{Type: wire.InputMediaDocument, FileID: v.FileID}, nil
		}

		flags := wire.AudioVoiceMask
		if len(v.Waveform) > 0 {
			flags |= wire.AudioWaveformMask
		}
		mimeType := v.MimeType
		switch mimeType {
		case "audio/ogg", "audio/mpeg", "audio/mp4":
		default:
			mimeType = defaultMimeType
		}
		return wire.InputMedia{
			Type:     wire.InputMediaUploadedDocument,
			FileID:   v.FileID,
			MimeType: mimeType,
			Attributes: []wire.DocumentAttributeAudio{{
				Flags:    flags,
				Duration: v.Duration,
				Waveform: v.Waveform,
			}},
		}, nil
	}).Await(ctx)
}

// Refresh fetches fileID from the server and replaces the stored note.
func (m *Manager) Refresh(ctx context.Context, fileID string) (VoiceNote, error) {
	p := actor.NewPromise[VoiceNote](m.lane)
	var id string
	query.Send(ctx, m.handler, query.Query[wire.Document]{
		Name:   "get_voice_note",
		Method: wire.MethodGetVoiceNote,
		Validate: func() error {
			if fileID == "" {
				return apperr.Validation("File identifier must be non-empty")
			}
			id = m.resolve(fileID)
			return nil
		},
		Params: func() (any, error) {
			return wire.GetVoiceNoteParams{FileID: id}, nil
		},
		Parse: func(resp *remote.Response) (wire.Document, updates.Batch, error) {
			var doc wire.Document
			if err := resp.Decode(&doc); err != nil {
				return doc, nil, err
			}
			if doc.FileID != id {
				return doc, nil, fmt.Errorf("received voice note %q instead of %q", doc.FileID, id)
			}
			return doc, nil, nil
		},
	}, func(doc wire.Document) (VoiceNote, error) {
		stored := m.store.CreateOrUpdate(FromDocument(doc), true)
		v, _ := m.store.Get(stored)
		return v, nil
	}, p)
	return p.Await(ctx)
}
