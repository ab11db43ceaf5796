// Package server exposes PDF download and suggestion endpoints over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ByLCY/vitae/cv"
	"github.com/ByLCY/vitae/export"
	"github.com/ByLCY/vitae/renderer"
	"github.com/ByLCY/vitae/store"
	"github.com/ByLCY/vitae/suggest"
)

// CVStore is the subset of store.Store used by the handlers.
type CVStore interface {
	Ping(ctx context.Context) error
	GetCV(ctx context.Context, id, userID uuid.UUID) (*store.CV, error)
	ListCVs(ctx context.Context, userID uuid.UUID) ([]*store.CV, error)
	CreateCV(ctx context.Context, userID uuid.UUID, doc *cv.Document) (uuid.UUID, error)
	UpdateCV(ctx context.Context, id, userID uuid.UUID, doc *cv.Document) error
	DeleteCV(ctx context.Context, id, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*cv.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, p *cv.Profile) error
}

// Suggester produces job-specific suggestions.
type Suggester interface {
	Suggest(ctx context.Context, jobDescription string, profile *cv.Profile) (*suggest.Suggestion, error)
}

type Handler struct {
	store     CVStore
	exporter  *export.Exporter
	suggester Suggester
}

func NewHandler(s CVStore, e *export.Exporter, sg Suggester) *Handler {
	return &Handler{store: s, exporter: e, suggester: sg}
}

// New builds the fiber app with all routes registered.
func New(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/healthz", h.Health)
	app.Get("/users/:user/cvs", h.ListCVs)
	app.Post("/users/:user/cvs", h.CreateCV)
	app.Get("/users/:user/cvs/:id", h.GetCV)
	app.Put("/users/:user/cvs/:id", h.UpdateCV)
	app.Delete("/users/:user/cvs/:id", h.DeleteCV)
	app.Get("/users/:user/cvs/:id/pdf", h.DownloadPDF)
	app.Put("/users/:user/profile", h.PutProfile)
	app.Post("/users/:user/suggestions", h.Suggest)
	return app
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		slog.Warn("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type cvSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Template string `json:"template"`
}

func (h *Handler) ListCVs(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	cvs, err := h.store.ListCVs(c.UserContext(), userID)
	if err != nil {
		slog.Error("list cvs failed", "user", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list cvs"})
	}
	out := make([]cvSummary, 0, len(cvs))
	for _, item := range cvs {
		out = append(out, cvSummary{ID: item.ID.String(), Title: item.Document.Title, Template: item.Document.TemplateID})
	}
	return c.JSON(out)
}

// CreateCV stores a CV posted as JSON. The body must pass the schema and the full validation.
func (h *Handler) CreateCV(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	doc, err := cv.Decode(c.Body())
	if err == nil {
		err = cv.Validate(doc)
	}
	if err != nil {
		var incomplete *cv.InputIncompleteError
		if errors.As(err, &incomplete) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "cv is incomplete", "fields": incomplete.Fields})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	id, err := h.store.CreateCV(c.UserContext(), userID, doc)
	if err != nil {
		slog.Error("create cv failed", "user", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save cv"})
	}
	return c.Status(fiber.StatusCreated).JSON(cvSummary{ID: id.String(), Title: doc.Title, Template: doc.TemplateID})
}

type cvResponse struct {
	ID       string       `json:"id"`
	Document *cv.Document `json:"cv"`
}

func (h *Handler) GetCV(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cv id"})
	}
	record, err := h.store.GetCV(c.UserContext(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cv not found"})
	}
	if err != nil {
		slog.Error("load cv failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load cv"})
	}
	return c.JSON(cvResponse{ID: id.String(), Document: record.Document})
}

// UpdateCV replaces a CV with the posted JSON after the same checks as CreateCV.
func (h *Handler) UpdateCV(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cv id"})
	}
	doc, err := cv.Decode(c.Body())
	if err == nil {
		err = cv.Validate(doc)
	}
	if err != nil {
		var incomplete *cv.InputIncompleteError
		if errors.As(err, &incomplete) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "cv is incomplete", "fields": incomplete.Fields})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	err = h.store.UpdateCV(c.UserContext(), id, userID, doc)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cv not found"})
	}
	if err != nil {
		slog.Error("update cv failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save cv"})
	}
	return c.JSON(cvResponse{ID: id.String(), Document: doc})
}

func (h *Handler) DeleteCV(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cv id"})
	}
	err = h.store.DeleteCV(c.UserContext(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cv not found"})
	}
	if err != nil {
		slog.Error("delete cv failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete cv"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PutProfile replaces the profile used as background for suggestions.
func (h *Handler) PutProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	var p cv.Profile
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.store.UpsertProfile(c.UserContext(), userID, &p); err != nil {
		slog.Error("save profile failed", "user", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save profile"})
	}
	return c.JSON(p)
}

func (h *Handler) DownloadPDF(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cv id"})
	}

	record, err := h.store.GetCV(c.UserContext(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cv not found"})
	}
	if err != nil {
		slog.Error("load cv failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load cv"})
	}

	sink := renderer.NewMemorySink()
	res, err := h.exporter.WithSink(sink).Export(record.Document)
	if err != nil {
		var incomplete *cv.InputIncompleteError
		if errors.As(err, &incomplete) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "cv is incomplete", "fields": incomplete.Fields})
		}
		slog.Error("export failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render pdf"})
	}
	data, err := readPDF(sink, res.Name)
	if err != nil {
		slog.Error("export failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render pdf"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": res.Name}))
	return c.Send(data)
}

func readPDF(sink *renderer.MemorySink, name string) ([]byte, error) {
	data, ok := sink.Get(name)
	if !ok {
		return nil, fmt.Errorf("rendered pdf %q missing from sink", name)
	}
	return data, nil
}

type suggestReq struct {
	JobDescription string `json:"jobDescription"`
	CVID           string `json:"cvId,omitempty"`
	Merge          bool   `json:"merge,omitempty"`
}

func (h *Handler) Suggest(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	var req suggestReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if h.suggester == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "suggestions are not configured"})
	}

	ctx := c.UserContext()
	// Load the CV before paying for a generation.
	var record *store.CV
	var cvID uuid.UUID
	if req.Merge {
		if cvID, err = uuid.Parse(req.CVID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cvId"})
		}
		record, err = h.store.GetCV(ctx, cvID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cv not found"})
		}
		if err != nil {
			slog.Error("load cv failed", "id", cvID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load cv"})
		}
	}

	profile, err := h.store.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("load profile failed", "user", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile"})
	}

	s, err := h.suggester.Suggest(ctx, req.JobDescription, profile)
	if errors.Is(err, suggest.ErrEmptyJobDescription) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jobDescription is required"})
	}
	if err != nil {
		slog.Error("suggestion failed", "user", userID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to generate suggestions"})
	}

	if record == nil {
		return c.JSON(fiber.Map{"suggestion": s})
	}

	report := suggest.Merge(record.Document, s)
	if err := h.store.UpdateCV(ctx, cvID, userID, record.Document); err != nil {
		slog.Error("save merged cv failed", "id", cvID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save cv"})
	}
	return c.JSON(fiber.Map{"suggestion": s, "merge": report})
}
