package discovery

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
)

// Group partitions listed objects into named datasets.
//
// The dataset name is the object's bucket-relative path truncated at the end
// of the first occurrence of marker. Every object joins exactly the dataset
// named by its own derived key, so no object is ever counted twice. Objects
// whose path lacks the marker yield no dataset and are skipped.
func Group(bucketBase, marker string, objects []entity.StorageObject) map[string]entity.Dataset {
	datasets := make(map[string]entity.Dataset)
	if marker == "" {
		return datasets
	}

	prefix := strings.TrimSuffix(bucketBase, "/") + "/"

	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.URL, prefix)

		idx := strings.Index(rel, marker)
		if idx < 0 {
			slog.Debug("no dataset inferred for object", "object", rel, "marker", marker)
			continue
		}
		name := rel[:idx+len(marker)]

		ds := datasets[name]
		ds.Name = name
		ds.SizeMB += float64(obj.SizeBytes) / (1024 * 1024)
		ds.ObjectURLs = append(ds.ObjectURLs, obj.URL)
		datasets[name] = ds
	}

	return datasets
}

// Names returns the dataset names in lexicographic order.
func Names(datasets map[string]entity.Dataset) []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
