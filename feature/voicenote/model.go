package voicenote

import (
	"bytes"

	"messenger-core/core/wire"
)

// TranscriptionState is the lifecycle of a speech recognition.
type TranscriptionState int

const (
	TranscriptionPending TranscriptionState = iota
	TranscriptionCompleted
	TranscriptionFailed
)

func (s TranscriptionState) String() string {
	switch s {
	case TranscriptionPending:
		return "pending"
	case TranscriptionCompleted:
		return "completed"
	case TranscriptionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TranscriptionInfo is the speech recognition attached to a voice note.
type TranscriptionInfo struct {
	State TranscriptionState
	ID    int64
	Text  string
	Error string
}

// IsCompleted reports whether the transcription has a final text.
func (t *TranscriptionInfo) IsCompleted() bool {
	return t != nil && t.State == TranscriptionCompleted
}

func (t *TranscriptionInfo) clone() *TranscriptionInfo {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// UpdateTranscription stores next in *current when next is completed and
// *current is not, and reports whether it did. Pending or failed values never
// overwrite what is stored.
func UpdateTranscription(current **TranscriptionInfo, next *TranscriptionInfo) bool {
	if !next.IsCompleted() || (*current).IsCompleted() {
		return false
	}
	*current = next.clone()
	return true
}

// CopyIfTranscribed returns a copy of t when it is completed, nil otherwise.
func CopyIfTranscribed(t *TranscriptionInfo) *TranscriptionInfo {
	if !t.IsCompleted() {
		return nil
	}
	return t.clone()
}

// VoiceNote is a cached voice note.
type VoiceNote struct {
	FileID        string
	MimeType      string
	Duration      int32
	Waveform      []byte
	Transcription *TranscriptionInfo
}

func (v *VoiceNote) clone() VoiceNote {
	c := *v
	c.Waveform = bytes.Clone(v.Waveform)
	c.Transcription = v.Transcription.clone()
	return c
}

// FromDocument converts a server document. The duration is clamped at zero.
func FromDocument(doc wire.Document) VoiceNote {
	return VoiceNote{
		FileID:        doc.FileID,
		MimeType:      doc.MimeType,
		Duration:      max(doc.Duration, 0),
		Waveform:      bytes.Clone(doc.Waveform),
		Transcription: transcriptionFromWire(doc.Transcription),
	}
}

func transcriptionFromWire(t *wire.Transcription) *TranscriptionInfo {
	if t == nil {
		return nil
	}
	info := &TranscriptionInfo{ID: t.ID, Text: t.Text, Error: t.Error}
	switch {
	case t.Error != "":
		info.State = TranscriptionFailed
	case t.Pending:
		info.State = TranscriptionPending
	default:
		info.State = TranscriptionCompleted
	}
	return info
}

// Object is the caller-facing representation of a voice note.
type Object struct {
	FileID        string               `json:"file_id"`
	Duration      int32                `json:"duration"`
	Waveform      []byte               `json:"waveform"`
	MimeType      string               `json:"mime_type"`
	Transcription *TranscriptionObject `json:"speech_recognition_result,omitempty"`
}

// TranscriptionObject is the caller-facing speech recognition result.
type TranscriptionObject struct {
	State string `json:"state"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Object converts v for callers.
func (v VoiceNote) Object() Object {
	o := Object{
		FileID:   v.FileID,
		Duration: v.Duration,
		Waveform: v.Waveform,
		MimeType: v.MimeType,
	}
	if t := v.Transcription; t != nil {
		o.Transcription = &TranscriptionObject{State: t.State.String(), Text: t.Text, Error: t.Error}
	}
	return o
}
