package entity

// ImportEvent is a progress event published while a run advances, consumed
// by the console reporter.
type ImportEvent struct {
	EventID int64
	Dataset string
	Kind    EventKind
	Message string
}
