package usecase

import (
	"strings"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
)

// legacyPrefix marks datasets from the previous release train that the
// --skip-legacy flag excludes from a run.
const legacyPrefix = "R4"

// Filter narrows which discovered datasets a run imports.
type Filter struct {
	// Only restricts the run to datasets whose name contains any of the
	// keywords. Empty means all.
	Only []string
	// SkipLegacy excludes datasets whose name carries the legacy prefix.
	SkipLegacy bool
}

// Matches reports whether the dataset passes the filter.
func (f Filter) Matches(name string) bool {
	if f.SkipLegacy && strings.HasPrefix(name, legacyPrefix) {
		return false
	}

	if len(f.Only) == 0 {
		return true
	}

	for _, keyword := range f.Only {
		if strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

// RunSummary is the end-of-run accounting over every dataset the run touched.
type RunSummary struct {
	Records   []entity.ImportRecord
	Succeeded int
	Failed    int
	Skipped   int
}
