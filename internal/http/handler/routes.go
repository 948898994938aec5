package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mediapi/internal/media"
	"mediapi/internal/model"
	"mediapi/internal/service"
)

// IngestObserver records an ingest attempt for metrics; nil is allowed.
type IngestObserver func(category, outcome string)

// mediaResponse is the wire shape of a descriptor: the stored record plus a
// human-readable size.
type mediaResponse struct {
	model.Media
	SizeHuman string `json:"size"`
}

func toResponse(m *model.Media) mediaResponse {
	return mediaResponse{Media: *m, SizeHuman: humanize.Bytes(uint64(m.Size))}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.MediaService, observe IngestObserver) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/media", UploadMedia(svc, observe))
	app.Get("/media", ListMedia(svc))
	app.Get("/media/:id", GetMedia(svc))
	app.Delete("/media/:id", DeleteMedia(svc))
}

// HealthCheck reports readiness; it checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is the simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadMedia ingests one multipart file (field name: file) per request.
//
// @Summary Upload a media file
// @Accept multipart/form-data
// @Param file formData file true "file to ingest"
// @Success 201 {object} mediaResponse
// @Router /media [post]
func UploadMedia(svc service.MediaService, observe IngestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		m, err := svc.Ingest(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			code, status, msg := ingestErrorStatus(err)
			if observe != nil {
				observe(media.Classify(ct).String(), code)
			}
			return writeError(c, status, code, msg)
		}

		if observe != nil {
			observe(m.Category, "stored")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(m))
	}
}

// ingestErrorStatus maps pipeline failure kinds onto HTTP statuses. The kinds
// stay distinct on the wire so the CMS can tell "wrong format" from "file
// appears corrupted".
func ingestErrorStatus(err error) (code string, status int, msg string) {
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		return "UNSUPPORTED_TYPE", fiber.StatusUnsupportedMediaType, "unsupported file type"
	case errors.Is(err, media.ErrSizeExceeded):
		return "SIZE_EXCEEDED", fiber.StatusRequestEntityTooLarge, "upload exceeds the maximum allowed size"
	case errors.Is(err, media.ErrTranscodeFailure):
		return "TRANSCODE_FAILURE", fiber.StatusUnprocessableEntity, "file appears corrupted or is not a valid image"
	case errors.Is(err, media.ErrIOFailure):
		return "IO_FAILURE", fiber.StatusInternalServerError, "could not store the file"
	default:
		return "INTERNAL_ERROR", fiber.StatusInternalServerError, "internal server error"
	}
}

// ListMedia returns media records with limit & offset pagination.
//
// @Summary List media
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} service.MediaListResult
// @Router /media [get]
func ListMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetMedia returns a single media record by ID.
func GetMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		m, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "media not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(toResponse(m))
	}
}

// DeleteMedia removes a media record and its stored files.
func DeleteMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "media not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
