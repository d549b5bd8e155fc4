package config

import (
	"path/filepath"

	"pdf-diff/internal/domain"
	"pdf-diff/internal/infra/pdfdoc"
	"pdf-diff/internal/infra/supabase"
	"pdf-diff/internal/repository"
	"pdf-diff/internal/service"
	"pdf-diff/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient
	Artifacts      domain.ArtifactStore
	Results        domain.ResultRepository
	History        domain.ResultHistory
	Comparisons    *service.ComparisonService
	Discovery      *service.Discovery
	Runs           *service.RunRegistry
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return NewContainerWithConfig(NewConfig())
}

// NewContainerWithConfig wires the application around an existing config.
// Supabase backed components are only added when Supabase is configured
// and reachable.
func NewContainerWithConfig(config domain.Config) *Container {
	appLogger := logger.NewLogger(config.GetLogLevel())

	supabaseClient := supabase.NewSupabaseClient(config, appLogger)
	supabaseReady := false
	if supabaseClient.IsConfigured() {
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Warn("Supabase disabled", "error", err)
		} else {
			supabaseReady = true
		}
	}

	var storage domain.StorageService
	if supabaseReady && config.GetSupabaseBucket() != "" {
		storage = service.NewStorageService(config.GetSupabaseURL(), config.GetSupabaseKey(), config.GetSupabaseBucket())
	}
	artifacts := repository.NewFileArtifactStore(config.GetOutputDir(), storage, appLogger)

	fileResults := repository.NewFileResultRepository(filepath.Join(config.GetOutputDir(), config.GetResultFile()), appLogger)
	results := fileResults
	var history domain.ResultHistory
	if supabaseReady {
		remote := repository.NewSupabaseResultRepository(supabaseClient, config.GetSupabaseResultsTable(), appLogger)
		results = repository.NewMultiResultRepository(fileResults, remote)
		history = remote
	}

	pdfService := pdfdoc.NewService(appLogger, config.GetStrictLoad())
	comparisons := service.NewComparisonService(pdfService, artifacts, results, appLogger, config.GetWorkerCount())
	discovery := service.NewDiscovery(appLogger)

	return &Container{
		Config:         config,
		Logger:         appLogger,
		SupabaseClient: supabaseClient,
		Artifacts:      artifacts,
		Results:        results,
		History:        history,
		Comparisons:    comparisons,
		Discovery:      discovery,
		Runs:           service.NewRunRegistry(discovery, comparisons, appLogger),
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
