// Package voicenote keeps the voice notes known to the session.
//
// # Store
//
// Store maps file ids to voice notes. It is owned by the manager lane and
// does no locking. CreateOrUpdate with replace=false never changes an
// existing note; with replace=true each field is only replaced when it
// differs, and a transcription turning completed fires the completion
// listener exactly once.
//
// # Merging
//
// When two file ids turn out to be the same file, Merger copies the old note
// under the new id (if the new id is unknown) and aliases the old id to the
// new one in the identity registry. Merging is directional: once old has
// been merged into new, merging new into old is rejected.
//
// # HTTP
//
//	GET  /voicenotes/:file_id
//	POST /voicenotes/:file_id/refresh
package voicenote
