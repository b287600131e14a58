package voicenote

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

// Store is the EntityStore of voice notes. It must only be used from the
// owner lane.
type Store struct {
	notes       map[string]*VoiceNote
	onCompleted func(fileID string)
	logger      *zap.Logger
}

// NewStore creates an empty store. onCompleted may be nil.
func NewStore(logger *zap.Logger, onCompleted func(fileID string)) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		notes:       make(map[string]*VoiceNote),
		onCompleted: onCompleted,
		logger:      logger,
	}
}

// Get returns a copy of the note stored under fileID.
func (s *Store) Get(fileID string) (VoiceNote, bool) {
	v, ok := s.notes[fileID]
	if !ok {
		return VoiceNote{}, false
	}
	return v.clone(), true
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// CreateOrUpdate inserts note if its id is unknown. An existing note is left
// untouched unless replace is set.
func (s *Store) CreateOrUpdate(note VoiceNote, replace bool) string {
	if note.FileID == "" {
		panic("voicenote: empty file id")
	}
	id := note.FileID
	s.logger.Debug("Receive voice note", zap.String("file_id", id))

	v, ok := s.notes[id]
	if !ok {
		c := note.clone()
		s.notes[id] = &c
		return id
	}
	if !replace {
		return id
	}

	if v.MimeType != note.MimeType {
		s.logger.Debug("Voice note info has changed",
			zap.String("file_id", id), zap.String("field", "mime_type"))
		v.MimeType = note.MimeType
	}
	if v.Duration != note.Duration || !bytes.Equal(v.Waveform, note.Waveform) {
		s.logger.Debug("Voice note info has changed",
			zap.String("file_id", id), zap.String("field", "duration"))
		v.Duration = note.Duration
		v.Waveform = bytes.Clone(note.Waveform)
	}
	if UpdateTranscription(&v.Transcription, note.Transcription) && s.onCompleted != nil {
		s.onCompleted(id)
	}
	return id
}

// Duplicate copies the note of oldID under newID. The transcription is only
// copied when completed. oldID must exist and newID must not.
func (s *Store) Duplicate(newID, oldID string) string {
	old, ok := s.notes[oldID]
	if !ok {
		panic(fmt.Sprintf("voicenote: duplicate of unknown voice note %q", oldID))
	}
	if _, exists := s.notes[newID]; exists {
		panic(fmt.Sprintf("voicenote: duplicate onto existing voice note %q", newID))
	}
	s.notes[newID] = &VoiceNote{
		FileID:        newID,
		MimeType:      old.MimeType,
		Duration:      old.Duration,
		Waveform:      bytes.Clone(old.Waveform),
		Transcription: CopyIfTranscribed(old.Transcription),
	}
	return newID
}

// transcription returns the stored transcription of fileID, creating an
// empty one when allowed. The note must exist.
func (s *Store) transcription(fileID string, allowCreation bool) *TranscriptionInfo {
	v, ok := s.notes[fileID]
	if !ok {
		panic(fmt.Sprintf("voicenote: transcription of unknown voice note %q", fileID))
	}
	if v.Transcription == nil && allowCreation {
		v.Transcription = &TranscriptionInfo{State: TranscriptionPending}
	}
	return v.Transcription
}
