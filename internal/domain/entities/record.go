package entities

import "time"

// ProgressRecord is one keyed entry of a session's progress space.
// Payload is the opaque serialized content; its shape depends on the key's namespace.
type ProgressRecord struct {
	SessionID string
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}

// Kind decodes the record key.
func (r ProgressRecord) Kind() RecordKind {
	return Classify(r.Key)
}
