// Package usecase orchestrates a bulk-import run: discovering datasets,
// validating their files, submitting import jobs, and polling each job to
// a terminal state.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/discovery"
	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgerror"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkguid"
)

type Lister interface {
	List(ctx context.Context) ([]entity.StorageObject, error)
}

type Validator interface {
	Validate(ctx context.Context, urls []string) []string
}

type Submitter interface {
	Submit(ctx context.Context, datasetName string, candidateURLs []string) (*entity.ImportJob, error)
}

type Poller interface {
	Poll(ctx context.Context, job *entity.ImportJob) (*entity.OperationOutcome, error)
}

type Store interface {
	Create(ctx context.Context, dataset string) error
	Update(ctx context.Context, dataset string, fn func(rec *entity.ImportRecord)) error
	Summary(ctx context.Context) []entity.ImportRecord
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.ImportEvent) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Lister    Lister
	Validator Validator
	Submitter Submitter
	Poller    Poller
	Store     Store
	Events    EventPublisher
	Clock     Clock
	ID        pkguid.NumberID

	// BucketBase and Marker drive dataset grouping over the listing.
	BucketBase string
	Marker     string
}

type Usecase struct {
	lister     Lister
	validator  Validator
	submitter  Submitter
	poller     Poller
	store      Store
	events     EventPublisher
	clock      Clock
	id         pkguid.NumberID
	bucketBase string
	marker     string
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		lister:     dep.Lister,
		validator:  dep.Validator,
		submitter:  dep.Submitter,
		poller:     dep.Poller,
		store:      dep.Store,
		events:     dep.Events,
		clock:      clock,
		id:         dep.ID,
		bucketBase: dep.BucketBase,
		marker:     dep.Marker,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Datasets lists the bucket and returns the discovered datasets in
// lexicographic name order.
func (u *Usecase) Datasets(ctx context.Context) ([]entity.Dataset, error) {
	objects, err := u.lister.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := discovery.Group(u.bucketBase, u.marker, objects)

	datasets := make([]entity.Dataset, 0, len(grouped))
	for _, name := range discovery.Names(grouped) {
		datasets = append(datasets, grouped[name])
	}

	return datasets, nil
}

// Run imports every dataset that passes the filter, one at a time in name
// order. A dataset whose import job finishes with failing issues is recorded
// and the run moves on; transport, submission, and protocol errors stop the
// run immediately. The returned summary always covers every dataset the run
// touched, and the error is non-nil when any dataset failed.
func (u *Usecase) Run(ctx context.Context, filter Filter) (RunSummary, error) {
	datasets, err := u.Datasets(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	var failures []error
	for _, ds := range datasets {
		if !filter.Matches(ds.Name) {
			slog.InfoContext(ctx, "dataset filtered out", "dataset", ds.Name)
			continue
		}

		if err := u.importDataset(ctx, ds); err != nil {
			var perr *pkgerror.Error
			if errors.As(err, &perr) && perr.Type() == pkgerror.TypeJobOutcome {
				failures = append(failures, err)
				continue
			}

			failures = append(failures, err)
			return u.summarize(ctx), errors.Join(failures...)
		}
	}

	return u.summarize(ctx), errors.Join(failures...)
}

func (u *Usecase) summarize(ctx context.Context) RunSummary {
	summary := RunSummary{Records: u.store.Summary(ctx)}
	for _, rec := range summary.Records {
		switch rec.State {
		case entity.JobStateSucceeded:
			summary.Succeeded++
		case entity.JobStateFailed:
			summary.Failed++
		case entity.JobStateSkipped:
			summary.Skipped++
		}
	}

	return summary
}

func (u *Usecase) importDataset(ctx context.Context, ds entity.Dataset) error {
	if err := u.store.Create(ctx, ds.Name); err != nil {
		return err
	}
	u.update(ctx, ds.Name, func(rec *entity.ImportRecord) {
		rec.StartedAt = u.clock.Now().Unix()
	})

	slog.InfoContext(ctx, "importing dataset", "dataset", ds.Name, "size_mb", fmt.Sprintf("%.2f", ds.SizeMB), "objects", len(ds.ObjectURLs))

	valid := u.validator.Validate(ctx, ds.ObjectURLs)

	job, err := u.submitter.Submit(ctx, ds.Name, valid)
	if err != nil {
		u.finish(ctx, ds.Name, entity.JobStateFailed, err)
		u.publish(ctx, ds.Name, entity.EventKindFailed, err.Error())
		return err
	}

	if job == nil {
		u.finish(ctx, ds.Name, entity.JobStateSkipped, nil)
		u.publish(ctx, ds.Name, entity.EventKindSkipped, "no importable files")
		return nil
	}

	u.update(ctx, ds.Name, func(rec *entity.ImportRecord) {
		rec.StatusURL = job.StatusURL
		rec.ResourceCount = len(valid)
	})
	u.publish(ctx, ds.Name, entity.EventKindSubmitted, job.StatusURL)

	outcome, err := u.poller.Poll(ctx, job)
	if err != nil {
		u.finish(ctx, ds.Name, job.State, err)
		u.publish(ctx, ds.Name, entity.EventKindFailed, failureMessage(err))
		return err
	}

	report, ok := outcome.ReportMessage()
	if !ok {
		report = outcome.Verbatim()
	}

	u.update(ctx, ds.Name, func(rec *entity.ImportRecord) {
		rec.Report = report
	})
	u.finish(ctx, ds.Name, job.State, nil)
	u.publish(ctx, ds.Name, entity.EventKindSucceeded, report)

	return nil
}

func (u *Usecase) finish(ctx context.Context, dataset string, state entity.JobState, cause error) {
	u.update(ctx, dataset, func(rec *entity.ImportRecord) {
		rec.State = state
		rec.EndedAt = u.clock.Now().Unix()
		if cause != nil {
			rec.Err = failureMessage(cause)
		}
	})
}

func (u *Usecase) update(ctx context.Context, dataset string, fn func(rec *entity.ImportRecord)) {
	if err := u.store.Update(ctx, dataset, fn); err != nil {
		slog.ErrorContext(ctx, "failed to update import record", "dataset", dataset, "error", err)
	}
}

func (u *Usecase) publish(ctx context.Context, dataset string, kind entity.EventKind, message string) {
	if u.events == nil {
		return
	}

	var eventID int64
	if u.id != nil {
		eventID = u.id.Generate()
	}

	err := u.events.Publish(ctx, entity.ImportEvent{
		EventID: eventID,
		Dataset: dataset,
		Kind:    kind,
		Message: message,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish import event", "dataset", dataset, "kind", string(kind), "error", err)
	}
}

// failureMessage prefers the operator-facing message of structured errors.
func failureMessage(err error) string {
	var perr *pkgerror.Error
	if errors.As(err, &perr) && perr.Msg() != "" {
		return perr.Msg()
	}

	return err.Error()
}
