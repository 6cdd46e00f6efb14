package entity

// DataFileSuffix is the object-name suffix that marks bulk data files.
const DataFileSuffix = ".ndjson"

// StorageObject is a single bulk data file as reported by the bucket
// listing API. Immutable once listed.
type StorageObject struct {
	URL       string
	SizeBytes int64
}
