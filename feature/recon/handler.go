package recon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"recon-manager/core/dataset"
	"recon-manager/core/logger"
	"recon-manager/core/reconcile"
	"recon-manager/core/report"
	"recon-manager/core/source"
	"recon-manager/core/utils"
	"recon-manager/core/writer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the recon routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/recon")
	group.Post("/", h.HandleReconcile)
	group.Post("/sources", h.HandleReconcileSources)
	group.Get("/sources", h.HandleListSources)
}

// HandleReconcile reconciles two inline datasets.
// @Summary Reconcile Inline Datasets
// @Description Matches two datasets sent in the body on their key columns and returns the summary and the selected views.
// @Tags recon
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body Request true "Datasets and parameters"
// @Param limit query int false "Maximum rows returned per view"
// @Param verify query boolean false "Run the reconstruction checks"
// @Success 200 {object} Response "Reconciliation"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 422 {object} map[string]string "Relationship mismatch"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /recon [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := decode(c.Body(), &req); err != nil {
		return h.fail(c, l, err)
	}
	req.Verify = req.Verify || utils.ToBool(c.Query("verify"))

	resp, err := h.service.Reconcile(c.UserContext(), req, l)
	if err != nil {
		return h.fail(c, l, err)
	}
	truncate(resp, utils.ToInt(c.Query("limit")))
	return c.JSON(resp)
}

// HandleReconcileSources reconciles two stored datasets.
// @Summary Reconcile Stored Datasets
// @Description Loads two s3:// or db:// sources, matches them and optionally uploads the views. Engines are cached per sources and keys.
// @Tags recon
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body SourceRequest true "Sources and parameters"
// @Param limit query int false "Maximum rows returned per view"
// @Param verify query boolean false "Run the reconstruction checks"
// @Success 200 {object} Response "Reconciliation"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 422 {object} map[string]string "Relationship mismatch"
// @Failure 503 {object} map[string]string "Source backend unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /recon/sources [post]
func (h *Handler) HandleReconcileSources(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SourceRequest
	if err := decode(c.Body(), &req); err != nil {
		return h.fail(c, l, err)
	}
	req.Verify = req.Verify || utils.ToBool(c.Query("verify"))

	l.Info("Reconciling sources", zap.String("left", req.Left), zap.String("right", req.Right))
	resp, err := h.service.ReconcileSources(c.UserContext(), req, l)
	if err != nil {
		return h.fail(c, l, err)
	}
	truncate(resp, utils.ToInt(c.Query("limit")))
	return c.JSON(resp)
}

// HandleListSources lists readable objects.
// @Summary List Stored Datasets
// @Description Lists CSV, XLSX and JSON objects in the default bucket.
// @Tags recon
// @Security ApiKeyAuth
// @Produce json
// @Param prefix query string false "Key prefix"
// @Success 200 {object} ObjectList "Objects"
// @Failure 503 {object} map[string]string "Source backend unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /recon/sources [get]
func (h *Handler) HandleListSources(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	list, err := h.service.ListSources(c.UserContext(), c.Query("prefix"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(list)
}

// decode keeps numbers as literals so large identifiers survive.
func decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func truncate(resp *Response, limit int) {
	if limit <= 0 {
		return
	}
	for i := range resp.Views {
		if len(resp.Views[i].Rows) > limit {
			resp.Views[i].Rows = resp.Views[i].Rows[:limit]
		}
	}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrRelationshipMismatch):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrTooManyMatches):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, source.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, reconcile.ErrInvalidKeyAttribute),
		errors.Is(err, reconcile.ErrAmbiguousSuffix),
		errors.Is(err, reconcile.ErrTypeMismatch),
		errors.Is(err, reconcile.ErrUnknownView),
		errors.Is(err, reconcile.ErrUnknownRelationship),
		errors.Is(err, dataset.ErrDuplicateColumn),
		errors.Is(err, dataset.ErrRowWidth),
		errors.Is(err, source.ErrInvalidURI),
		errors.Is(err, source.ErrUnsupportedFormat),
		errors.Is(err, source.ErrSheetNotFound),
		errors.Is(err, source.ErrUnknownTable),
		errors.Is(err, writer.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Reconciliation failed", zap.Error(err))
	} else {
		l.Warn("Reconciliation rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
