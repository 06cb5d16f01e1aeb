// Package app contains the application setup for the bot.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/savastore/whatsbot/internal/catalog"
	"github.com/savastore/whatsbot/internal/config"
	"github.com/savastore/whatsbot/internal/dialogue"
	"github.com/savastore/whatsbot/internal/faq"
	"github.com/savastore/whatsbot/internal/service"
	"github.com/savastore/whatsbot/internal/session"
	"github.com/savastore/whatsbot/internal/transport/rest"
	"github.com/savastore/whatsbot/pkg/messaging"
	"github.com/savastore/whatsbot/pkg/server"
)

type Dependencies struct {
	DialogueService service.DialogueService
	Logger          *slog.Logger
}

// SetupDependencies loads the catalog and FAQ data and wires the dialogue
// service. A malformed data file is fatal: the bot must not serve traffic
// with an inconsistent catalog.
func SetupDependencies(cfg *config.Config, store session.Store, publisher messaging.Publisher, logger *slog.Logger) (*Dependencies, error) {
	products, err := catalog.LoadCSV(cfg.Data.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	catalogIndex, err := catalog.NewIndex(products)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	entries, err := faq.LoadCSV(cfg.Data.FaqFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load FAQ: %w", err)
	}
	faqIndex := faq.NewIndex(entries)

	logger.Info("Data files loaded",
		slog.Int("products", catalogIndex.Len()),
		slog.Int("faq_entries", faqIndex.Len()),
	)

	engine := dialogue.NewEngine(
		catalogIndex,
		faqIndex,
		mergeKeywords(dialogue.DefaultKeywords(), cfg.Dialogue.Keywords),
		dialogue.DefaultReplies(),
		dialogue.DefaultUpsellRules(),
	)
	dialogueService := service.NewService(store, engine, publisher, logger)

	return &Dependencies{
		DialogueService: dialogueService,
		Logger:          logger,
	}, nil
}

// SetupHttpHandler initializes the HTTP routes for the bot.
// Used by tests to set up the handler with the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the bot.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	webhookHandler := rest.NewHandler(deps.DialogueService, deps.Logger)
	webhookHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server for the bot.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// mergeKeywords overrides the default keyword classes with any non-empty
// configured lists.
func mergeKeywords(defaults dialogue.Keywords, overrides config.KeywordsConfig) dialogue.Keywords {
	if len(overrides.Price) > 0 {
		defaults.Price = overrides.Price
	}
	if len(overrides.Stock) > 0 {
		defaults.Stock = overrides.Stock
	}
	if len(overrides.Faq) > 0 {
		defaults.Faq = overrides.Faq
	}
	if len(overrides.Buy) > 0 {
		defaults.Buy = overrides.Buy
	}
	if len(overrides.Agent) > 0 {
		defaults.Agent = overrides.Agent
	}
	if len(overrides.Affirmative) > 0 {
		defaults.Affirmative = overrides.Affirmative
	}
	return defaults
}
