// Package importer assembles the bulk-import workflow from its parts.
package importer

import (
	"context"
	"io"
	"net/http"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/discovery"
	"github.com/FHIR-Aggregator/bulkimport/internal/importer/event"
	"github.com/FHIR-Aggregator/bulkimport/internal/importer/fhir"
	"github.com/FHIR-Aggregator/bulkimport/internal/importer/store"
	"github.com/FHIR-Aggregator/bulkimport/internal/importer/usecase"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgconfig"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkguid"
)

type Dependency struct {
	Config  pkgconfig.Config
	Client  *http.Client
	Context context.Context
	ID      pkguid.NumberID
	// Out receives operator-facing progress lines.
	Out io.Writer
}

// New wires the importer module and returns the usecase plus a closer that
// drains the progress reporter.
func New(dep Dependency) (*usecase.Usecase, func(context.Context) error, error) {
	bucketBase := dep.Config.GetString("bucket.base")

	lister := discovery.NewLister(dep.Client, discovery.ListerConfig{
		BucketBase: bucketBase,
		APIBase:    dep.Config.GetString("bucket.api_base"),
		PageSize:   dep.Config.GetInt("bucket.page_size"),
	})

	validator := fhir.NewValidator(dep.Client, dep.Config.GetDuration("import.probe_timeout"))
	submitter := fhir.NewSubmitter(dep.Client, dep.Config.GetString("server.url"), bucketBase)
	poller := fhir.NewPoller(
		dep.Client,
		dep.Config.GetDuration("import.poll_interval"),
		dep.Config.GetDuration("import.max_poll_wait"),
	)

	bus := event.NewBus(128)
	consumer := event.NewReporterConsumer(bus, event.NewConsoleReporter(dep.Out), event.ConsumerConfig{})
	consumer.Start()

	if dep.ID == nil {
		id, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, nil, err
		}
		dep.ID = id
	}

	uc := usecase.New(usecase.Dependency{
		Lister:     lister,
		Validator:  validator,
		Submitter:  submitter,
		Poller:     poller,
		Store:      store.NewInMemoryStore(),
		Events:     bus,
		ID:         dep.ID,
		BucketBase: bucketBase,
		Marker:     dep.Config.GetString("bucket.marker"),
	})

	return uc, consumer.Stop, nil
}
