package app

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgconfig"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkghttp"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkglog"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgroutine"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkguid"
)

func defaults() map[string]any {
	return map[string]any{
		"server.url": "http://fhir-server:8080/fhir",

		"bucket.base":      "https://storage.googleapis.com/fhir-aggregator-public",
		"bucket.api_base":  "https://storage.googleapis.com/storage/v1",
		"bucket.page_size": 1000,
		"bucket.marker":    "META",

		"import.poll_interval": "10s",
		"import.max_poll_wait": "0s",
		"import.probe_timeout": "10s",

		"transport.max_retries":    5,
		"transport.backoff_factor": 2.0,
		"transport.max_backoff":    "60s",
		"transport.retry_statuses": "500,502,503,504",
	}
}

// initialize runs once per invocation, after flags are parsed and before
// any command body.
func (a *App) initialize(cmd *cobra.Command) error {
	if err := a.initConfig(); err != nil {
		return err
	}
	a.initLibraries()
	a.initTransport()
	if err := a.initModules(); err != nil {
		return err
	}

	runID := a.uuid.Generate()
	cmd.SetContext(pkglog.SetRunID(cmd.Context(), runID))
	slog.Info("starting run", "run_id", runID, "command", cmd.Name())

	return nil
}

func (a *App) initConfig() error {
	cfg, err := pkgconfig.NewViper(a.configPath, defaults())
	if err != nil {
		return err
	}

	a.config = cfg
	a.closerFn["Config"] = func(context.Context) error {
		return cfg.Close()
	}

	return nil
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(10)
	a.uuid = pkguid.NewUUID()
}

func (a *App) initTransport() {
	var statuses []int
	for _, raw := range a.config.GetArray("transport.retry_statuses") {
		status, err := strconv.Atoi(raw)
		if err != nil {
			slog.Warn("ignoring malformed retry status", "value", raw)
			continue
		}
		statuses = append(statuses, status)
	}

	a.client = pkghttp.NewClient(pkghttp.Config{
		MaxRetries:    int(a.config.GetInt("transport.max_retries")),
		BackoffFactor: a.config.GetFloat("transport.backoff_factor"),
		MaxBackoff:    a.config.GetDuration("transport.max_backoff"),
		RetryStatuses: statuses,
	})
}

func (a *App) initModules() error {
	uc, closer, err := importer.New(importer.Dependency{
		Config:  a.config,
		Client:  a.client,
		Context: a.ctx,
		Out:     os.Stdout,
	})
	if err != nil {
		return err
	}

	a.importer = uc
	if closer != nil {
		a.closerFn["Importer"] = closer
	}

	return nil
}
