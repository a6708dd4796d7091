package logging

// Well-known attribute keys shared across components so log lines can be
// grepped consistently regardless of which package emitted them.
const (
	FieldComponent  = "component"
	FieldEventType  = "event_type"
	FieldErrorHint  = "error_hint"
	FieldPlatform   = "platform"
	FieldRomPath    = "rom_path"
	FieldBasename   = "basename"
	FieldAction     = "action"
	FieldEndpoint   = "endpoint"
	FieldAttempt    = "attempt"
	FieldMediaType  = "media_type"
	FieldAlert      = "alert"
	FieldDecisionID = "decision_id"
	FieldRunID      = "run_id"
)
