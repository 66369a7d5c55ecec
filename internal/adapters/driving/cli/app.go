package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/ai"
	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/config/file"
	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/embedding/codec"
	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/storage/memory"
	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/storage/sqlite"
	"github.com/raggamuffin/raggamuffin/internal/connectors/filesystem"
	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
	"github.com/raggamuffin/raggamuffin/internal/core/services"
	"github.com/raggamuffin/raggamuffin/internal/logger"
	"github.com/raggamuffin/raggamuffin/internal/normalisers/plaintext"
	"github.com/raggamuffin/raggamuffin/internal/postprocessors"
)

type options struct {
	dataDir   string
	configDir string
}

// app holds the store and the services built on it for one command.
type app struct {
	store   *sqlite.Store
	prompts driven.PromptStore

	settings    *domain.AppSettings
	settingsSvc driving.SettingsService
	reference   driving.ReferenceService
	entities    driving.EntityService
	documents   driving.DocumentService
	events      driving.EventService
	chunks      driving.ChunkService
	sets        driving.DocumentSetService
	ingest      driving.IngestService
	integrity   driving.IntegrityService
}

// openApp loads settings, opens the database and builds the services.
// AI collaborators are created on demand by enrichment.
func openApp(ctx context.Context, opts options) (*app, error) {
	var (
		configStore driven.ConfigStore
		prompts     driven.PromptStore
	)
	if opts.configDir == memoryConfigDir {
		configStore = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(opts.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		promptDir := ""
		if opts.configDir != "" {
			promptDir = filepath.Join(opts.configDir, "prompts")
		}
		promptStore, err := file.NewPromptStore(promptDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompts: %w", err)
		}
		configStore, prompts = fileStore, promptStore
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator(ctx))
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	dir := opts.dataDir
	if dir == "" {
		dir = settings.Store.DataDir
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debugw("store opened", "path", store.Path())

	chunker, err := postprocessors.NewDefaultRegistry().Build(postprocessors.DefaultProcessor, settings.Chunker)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build chunker: %w", err)
	}

	allowCycles := settings.Entities.AllowHierarchyCycles
	return &app{
		store:       store,
		prompts:     prompts,
		settings:    settings,
		settingsSvc: settingsSvc,
		reference:   services.NewReferenceService(store),
		entities:    services.NewEntityService(store, services.WithHierarchyCycles(allowCycles)),
		documents:   services.NewDocumentService(store),
		events:      services.NewEventService(store),
		chunks:      services.NewChunkService(store, chunker),
		sets:        services.NewDocumentSetService(store),
		ingest:      services.NewIngestService(store, filesystem.Build, plaintext.New(), chunker),
		integrity:   services.NewIntegrityService(store, allowCycles),
	}, nil
}

// enrichment creates the configured AI collaborators and the service using
// them. Unreachable collaborators are logged and left out.
func (a *app) enrichment(ctx context.Context) driving.EnrichmentService {
	result := ai.Init(ctx, a.settings, a.prompts)
	return services.NewEnrichmentService(a.store, result.Embedder, result.Summariser, codec.New())
}

// Close closes the store.
func (a *app) Close() error {
	return a.store.Close()
}
