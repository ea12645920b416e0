// Package queue defines the audit messages exchanged over the message broker
// and the background consumer that records them.
package queue

// AuditQueueName is the durable queue carrying every audit event.
const AuditQueueName = "scouting.audit"

// RecordEvent describes one grid mutation.  It carries enough for downstream
// consumers to log or trigger analytics without reading the snapshot store.
type RecordEvent struct {
	Action     string `json:"action"` // incidence.recorded|updated|deleted
	RecordID   string `json:"record_id"`
	RowID      int    `json:"row_id"`
	Position   int    `json:"position"`
	Level      int    `json:"level"`
	OccurredAt string `json:"occurred_at"`
}

// SnapshotCorruptedEvent is the telemetry emitted when a persisted snapshot
// could not be decoded and the engine fell back to its bootstrap state.  The
// fallback silently discards data, so this event is the only trace an
// operator gets.
type SnapshotCorruptedEvent struct {
	Key        string `json:"key"`
	Reason     string `json:"reason"`
	OccurredAt string `json:"occurred_at"`
}

// Envelope wraps every message on the audit queue.  Exactly one payload
// field is set, matching Type.
type Envelope struct {
	Type     string                  `json:"type"` // "record" | "snapshot_corrupted"
	Record   *RecordEvent            `json:"record,omitempty"`
	Snapshot *SnapshotCorruptedEvent `json:"snapshot,omitempty"`
}

// Envelope type values.
const (
	TypeRecord            = "record"
	TypeSnapshotCorrupted = "snapshot_corrupted"
)
