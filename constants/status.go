package constants

// AttemptStatus is the canonical status for rows in extraction_attempt.
type AttemptStatus string

// Stable values (store these exact strings in the archive).
const (
	AttemptStatusQueued    AttemptStatus = "QUEUED"     // accepted, waiting for a worker
	AttemptStatusRunning   AttemptStatus = "RUNNING"    // backend call in progress
	AttemptStatusExtractOK AttemptStatus = "EXTRACT_OK" // raw reply received
	AttemptStatusParseOK   AttemptStatus = "PARSE_OK"   // record parsed and seeded
	AttemptStatusFailed    AttemptStatus = "FAILED"     // terminal failure
)
