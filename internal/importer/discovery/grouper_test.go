package discovery

import (
	"math"
	"reflect"
	"testing"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
)

const base = "https://storage.googleapis.com/fhir-aggregator-public"

func TestGroupByMarkerToken(t *testing.T) {
	objects := []entity.StorageObject{
		{URL: base + "/A-META-1.ndjson", SizeBytes: 100 * 1024 * 1024},
		{URL: base + "/A-META-2.ndjson", SizeBytes: 50 * 1024 * 1024},
		{URL: base + "/B-META-1.ndjson", SizeBytes: 10 * 1024 * 1024},
	}

	datasets := Group(base, "META", objects)

	if got := Names(datasets); !reflect.DeepEqual(got, []string{"A-META", "B-META"}) {
		t.Fatalf("unexpected dataset names: %#v", got)
	}

	a := datasets["A-META"]
	if math.Abs(a.SizeMB-150) > 1e-9 {
		t.Fatalf("expected A-META to be 150 MB, got %v", a.SizeMB)
	}
	if len(a.ObjectURLs) != 2 {
		t.Fatalf("expected 2 objects in A-META, got %d", len(a.ObjectURLs))
	}

	b := datasets["B-META"]
	if math.Abs(b.SizeMB-10) > 1e-9 {
		t.Fatalf("expected B-META to be 10 MB, got %v", b.SizeMB)
	}
	if len(b.ObjectURLs) != 1 {
		t.Fatalf("expected 1 object in B-META, got %d", len(b.ObjectURLs))
	}
}

func TestGroupAggregatesSizeInMB(t *testing.T) {
	objects := []entity.StorageObject{
		{URL: base + "/X-META/one.ndjson", SizeBytes: 1536},
		{URL: base + "/X-META/two.ndjson", SizeBytes: 512},
	}

	datasets := Group(base, "META", objects)

	want := float64(2048) / (1024 * 1024)
	if got := datasets["X-META"].SizeMB; math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v MB, got %v", want, got)
	}
}

func TestGroupPreservesListingOrder(t *testing.T) {
	objects := []entity.StorageObject{
		{URL: base + "/P-META/c.ndjson", SizeBytes: 1},
		{URL: base + "/P-META/a.ndjson", SizeBytes: 1},
		{URL: base + "/P-META/b.ndjson", SizeBytes: 1},
	}

	datasets := Group(base, "META", objects)

	want := []string{
		base + "/P-META/c.ndjson",
		base + "/P-META/a.ndjson",
		base + "/P-META/b.ndjson",
	}
	if got := datasets["P-META"].ObjectURLs; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected listing order preserved, got %#v", got)
	}
}

func TestGroupSkipsPathsWithoutMarker(t *testing.T) {
	objects := []entity.StorageObject{
		{URL: base + "/A-META/Patient.ndjson", SizeBytes: 1},
		{URL: base + "/stray/Patient.ndjson", SizeBytes: 1},
	}

	datasets := Group(base, "META", objects)

	if len(datasets) != 1 {
		t.Fatalf("expected one dataset, got %#v", Names(datasets))
	}
	if _, ok := datasets["A-META"]; !ok {
		t.Fatalf("expected A-META dataset, got %#v", Names(datasets))
	}
}

func TestGroupAssignsEachObjectOnce(t *testing.T) {
	// A is a prefix of A2; with substring matching A2's objects would also
	// land in A. Keyed grouping must assign each object exactly once.
	objects := []entity.StorageObject{
		{URL: base + "/A-META/Patient.ndjson", SizeBytes: 1},
		{URL: base + "/A2-META/Patient.ndjson", SizeBytes: 1},
	}

	datasets := Group(base, "META", objects)

	total := 0
	for _, ds := range datasets {
		total += len(ds.ObjectURLs)
	}
	if total != len(objects) {
		t.Fatalf("expected %d assignments, got %d", len(objects), total)
	}
	if len(datasets["A-META"].ObjectURLs) != 1 {
		t.Fatalf("expected exactly one object in A-META, got %#v", datasets["A-META"].ObjectURLs)
	}
}

func TestGroupEmptyMarker(t *testing.T) {
	objects := []entity.StorageObject{
		{URL: base + "/A-META/Patient.ndjson", SizeBytes: 1},
	}

	if got := Group(base, "", objects); len(got) != 0 {
		t.Fatalf("expected no datasets for empty marker, got %#v", got)
	}
}
