// Package app boots the bulkimport command-line application: logging,
// configuration, the shared HTTP client, and the importer module.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/usecase"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgconfig"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgerror"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkglog"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgroutine"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	configPath string

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager
	client    *http.Client

	// modules
	importer *usecase.Usecase

	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	return &App{
		ctx:      ctx,
		cancel:   cancel,
		closerFn: map[string]func(context.Context) error{},
	}
}

// Run executes the selected command and returns the process exit code.
func (a *App) Run() int {
	defer a.cancel()

	err := a.rootCommand().ExecuteContext(a.ctx)
	a.shutdown()

	if err != nil {
		slog.Error("command failed", "error", err)
		return pkgerror.ExitCode(err)
	}

	return 0
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.goroutine != nil {
		if err := a.goroutine.Wait(); err != nil {
			slog.ErrorContext(ctx, "error from goroutine executions", "error", err)
		}
	}

	for name, closer := range a.closerFn {
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", name, "error", err)
		}
	}
}
