package entity

// ImportJob is an accepted asynchronous $import operation. It is created
// when submission returns a status handle and mutated only by the poller.
type ImportJob struct {
	DatasetName string
	StatusURL   string
	State       JobState
}

// ImportRecord tracks one dataset through a run for the end-of-run summary.
type ImportRecord struct {
	Dataset       string
	State         JobState
	StatusURL     string
	ResourceCount int
	Report        string
	Err           string
	StartedAt     int64
	EndedAt       int64
}
