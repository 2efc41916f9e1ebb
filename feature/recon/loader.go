package recon

import (
	"recon-manager/core/reconcile"
	"recon-manager/core/source"
	"recon-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Recon feature. client and db may be nil, which
// disables s3:// and db:// sources respectively.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg reconcile.Config) *Feature {
	resolver := source.NewResolver(client, bucket, db, logger)
	cache := reconcile.NewCache(cfg.CacheTTL())
	svc := NewService(resolver, cache, client, bucket, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "recon"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
