package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"freeresumetools/internal/checkout"
	"freeresumetools/internal/outcome"
	"freeresumetools/internal/services/health"
	"freeresumetools/internal/shared/config"
	"freeresumetools/internal/shared/server"
	"freeresumetools/internal/shared/server/middleware"
	"freeresumetools/internal/shared/storage/object"
	gcsstore "freeresumetools/internal/shared/storage/object/gcs"
	localstore "freeresumetools/internal/shared/storage/object/local"
	s3store "freeresumetools/internal/shared/storage/object/s3"
	"freeresumetools/internal/tools"
	"freeresumetools/internal/uploads"
	"freeresumetools/internal/webhook"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Store           object.ObjectStore
	LocalStore      *localstore.Store
	Uploads         *uploads.Submitter
	Webhooks        *webhook.Invoker
	Tracker         *outcome.Tracker
	Registry        *tools.Registry
	ToolsService    *tools.Service
	ToolsHandler    *tools.Handler
	CheckoutService *checkout.Service
	CheckoutHandler *checkout.Handler
	Health          *health.Service
}

// Build prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Store:    store,
		Uploads:  uploads.NewSubmitter(store, cfg.CacheControl),
		Webhooks: webhook.NewInvoker(cfg.WebhookTimeout),
		Tracker:  outcome.NewTracker(),
		Registry: tools.NewRegistry(tools.Definitions(tools.WebhookURLs{
			Tailoring: cfg.TailoringWebhookURL,
			JobMatch:  cfg.JobMatchWebhookURL,
			Fix:       cfg.FixWebhookURL,
		})...),
	}
	if local, ok := store.(*localstore.Store); ok {
		app.LocalStore = local
	}

	app.ToolsService = tools.NewService(app.Registry, app.Uploads, app.Webhooks, app.Tracker)
	app.ToolsHandler = tools.NewHandler(app.ToolsService, cfg.MaxUploadBytes)

	app.CheckoutService = BuildCheckout(cfg)
	app.CheckoutHandler = checkout.NewHandler(app.CheckoutService)

	app.Health = health.NewService(healthChecks(app))

	deps := server.RouterDeps{
		Config:          cfg,
		ToolsHandler:    app.ToolsHandler,
		CheckoutHandler: app.CheckoutHandler,
		Health:          app.Health,
		RateLimiter:     middleware.NewRateLimiter(nil),
	}
	if app.LocalStore != nil {
		deps.LocalFilesDir = app.LocalStore.Dir()
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

// BuildCheckout wires the checkout service on Stripe. A missing key fails
// on first use rather than here.
func BuildCheckout(cfg config.Config) *checkout.Service {
	return checkout.NewService(checkout.NewStripeProvider(checkout.StripeConfig{
		SecretKey:  cfg.StripeSecretKey,
		Currency:   cfg.CheckoutCurrency,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	}))
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "supabase":
		if strings.TrimSpace(cfg.SupabaseURL) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=supabase requires SUPABASE_URL")
		}
		return s3store.NewSupabase(ctx, cfg.SupabaseURL, cfg.StorageBucket, cfg.SupabaseRegion, cfg.SupabaseAccessKey, cfg.SupabaseSecretKey)
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Bucket:        cfg.StorageBucket,
			Region:        cfg.AWSRegion,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3Endpoint != "",
		})
	case "gcs":
		return gcsstore.New(ctx, cfg.StorageBucket, cfg.GCSPublicBaseURL)
	default:
		log.Printf("bootstrap: using local object store at %s", cfg.LocalStoreDir)
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func healthChecks(app *App) map[string]health.Check {
	checks := map[string]health.Check{
		"checkout": func() bool { return strings.TrimSpace(app.Config.StripeSecretKey) != "" },
	}
	for _, t := range app.Registry.List() {
		t := t
		checks["tool:"+t.Name] = func() bool { return app.Registry.CheckConfigured(t) == nil }
	}
	return checks
}
