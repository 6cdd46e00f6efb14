package entity

// Dataset is a named group of bulk data files imported together.
//
// The name is the object's bucket-relative path truncated at the end of
// the configured marker token. ObjectURLs keep the bucket listing order.
type Dataset struct {
	Name       string
	SizeMB     float64
	ObjectURLs []string
}
