package catalog

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the catalog into the application loader.
type Feature struct {
	store  *Store
	logger *zap.Logger
}

// NewFeature creates the catalog feature.
func NewFeature(store *Store, logger *zap.Logger) *Feature {
	return &Feature{store: store, logger: logger}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled reports whether the feature can run. The catalog requires a
// database connection.
func (f *Feature) IsEnabled() bool {
	return f.store != nil
}

// Load registers the catalog HTTP routes.
func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.store, f.logger)
	handler.RegisterRoutes(app)
	return nil
}
