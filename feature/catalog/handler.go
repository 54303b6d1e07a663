package catalog

import (
	"catalog-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store, log *zap.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	entities := app.Group("/entities")
	entities.Get("/", h.HandleListEntities)
	entities.Get("/by-name/:name", h.HandleGetEntity)

	locations := app.Group("/locations")
	locations.Post("/", h.HandleAddLocation)
	locations.Get("/", h.HandleListLocations)
	locations.Get("/:id", h.HandleGetLocation)
	locations.Delete("/:id", h.HandleRemoveLocation)
	locations.Get("/:id/history", h.HandleLocationHistory)
}

// HandleListEntities returns all stored entities.
// @Summary List Entities
// @Description List all catalog entities, ordered by namespace and name.
// @Tags entities
// @Produce json
// @Success 200 {array} EntityResponse "Entities"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /entities [get]
func (h *Handler) HandleListEntities(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var responses []EntityResponse
	err := h.store.Transaction(func(tx *gorm.DB) error {
		var err error
		responses, err = h.store.Entities(tx)
		return err
	})
	if err != nil {
		l.Error("Failed to list entities", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(responses)
}

// HandleGetEntity returns one entity by name and optional namespace.
// @Summary Get Entity
// @Description Get a catalog entity by name. Use the namespace query parameter to select a namespaced entity.
// @Tags entities
// @Produce json
// @Param name path string true "Entity name"
// @Param namespace query string false "Entity namespace"
// @Success 200 {object} EntityResponse "Entity"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /entities/by-name/{name} [get]
func (h *Handler) HandleGetEntity(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	name := c.Params("name")

	var namespace *string
	if ns := c.Query("namespace"); ns != "" {
		namespace = &ns
	}

	var response *EntityResponse
	err := h.store.Transaction(func(tx *gorm.DB) error {
		var err error
		response, err = h.store.Entity(tx, name, namespace)
		return err
	})
	if err != nil {
		l.Error("Failed to get entity", zap.String("name", name), zap.Error(err))
		return h.fail(c, err)
	}
	if response == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "entity not found",
		})
	}
	return c.JSON(response)
}

// HandleAddLocation registers a new location.
// @Summary Add Location
// @Description Register a location. Adding an already-registered target returns the existing location.
// @Tags locations
// @Accept json
// @Produce json
// @Param location body LocationSpec true "Location to register"
// @Success 201 {object} models.LocationRow "Location"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /locations [post]
func (h *Handler) HandleAddLocation(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var spec LocationSpec
	if err := c.BodyParser(&spec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed location body",
		})
	}
	if spec.Type == "" || spec.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location requires type and target",
		})
	}

	row, err := h.store.AddLocation(spec)
	if err != nil {
		l.Error("Failed to add location", zap.String("target", spec.Target), zap.Error(err))
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// HandleListLocations returns all registered locations.
// @Summary List Locations
// @Tags locations
// @Produce json
// @Success 200 {array} models.LocationRow "Locations"
// @Router /locations [get]
func (h *Handler) HandleListLocations(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	rows, err := h.store.Locations()
	if err != nil {
		l.Error("Failed to list locations", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(rows)
}

// HandleGetLocation returns one location by id.
// @Summary Get Location
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} models.LocationRow "Location"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /locations/{id} [get]
func (h *Handler) HandleGetLocation(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	id := c.Params("id")

	row, err := h.store.Location(id)
	if err != nil {
		l.Warn("Failed to get location", zap.String("id", id), zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(row)
}

// HandleRemoveLocation deletes a location by id.
// @Summary Remove Location
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /locations/{id} [delete]
func (h *Handler) HandleRemoveLocation(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	id := c.Params("id")

	if err := h.store.RemoveLocation(id); err != nil {
		l.Warn("Failed to remove location", zap.String("id", id), zap.Error(err))
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleLocationHistory returns the refresh audit trail for a location.
// @Summary Location Update History
// @Description List the update-log events recorded for a location, newest first.
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {array} models.LocationUpdateLogRow "Update log events"
// @Router /locations/{id}/history [get]
func (h *Handler) HandleLocationHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	id := c.Params("id")

	rows, err := h.store.LocationUpdateLogEvents(id)
	if err != nil {
		l.Error("Failed to read location history", zap.String("id", id), zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(rows)
}

// fail maps the store error taxonomy onto HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case IsNotFound(err):
		status = fiber.StatusNotFound
	case IsConflict(err):
		status = fiber.StatusConflict
	case IsInvalidInput(err):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
