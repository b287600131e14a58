package wire

// Transcription is the speech recognition state of a voice note.
type Transcription struct {
	ID      int64  `cbor:"id,omitempty"`
	Text    string `cbor:"text,omitempty"`
	Pending bool   `cbor:"pending,omitempty"`
	Error   string `cbor:"error,omitempty"`
}

// Document is a voice note document.
type Document struct {
	FileID        string         `cbor:"file_id"`
	MimeType      string         `cbor:"mime_type,omitempty"`
	Duration      int32          `cbor:"duration"`
	Waveform      []byte         `cbor:"waveform,omitempty"`
	Transcription *Transcription `cbor:"transcription,omitempty"`
}

// GetVoiceNoteParams are the parameters of MethodGetVoiceNote.
type GetVoiceNoteParams struct {
	FileID string `cbor:"file_id"`
}

// DocumentAttributeAudio flags.
const (
	AudioVoiceMask    int32 = 1 << 10
	AudioWaveformMask int32 = 1 << 2
)

// DocumentAttributeAudio describes an audio document.
type DocumentAttributeAudio struct {
	Flags    int32  `cbor:"flags"`
	Duration int32  `cbor:"duration"`
	Waveform []byte `cbor:"waveform,omitempty"`
}

// Input media types.
const (
	InputMediaUploadedDocument = "inputMediaUploadedDocument"
	InputMediaDocument         = "inputMediaDocument"
)

// InputMedia is media attached to an outgoing message.
type InputMedia struct {
	Type       string                   `cbor:"_type"`
	FileID     string                   `cbor:"file_id"`
	MimeType   string                   `cbor:"mime_type,omitempty"`
	Attributes []DocumentAttributeAudio `cbor:"attributes,omitempty"`
}
