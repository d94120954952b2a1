package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"doctransform/internal/docio"
	"doctransform/internal/service"
)

// transformRequest is the JSON body of POST /transform.
type transformRequest struct {
	TemplateID   string `json:"template_id"`
	Query        string `json:"query"`
	OutputFormat string `json:"output_format"`
}

// CreateTransform runs the agent pipeline synchronously and returns the
// terminal job. A pipeline failure still returns the failed job body so the
// caller can read its error and stage.
func CreateTransform(svc service.TransformService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req transformRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.TemplateID == "" {
			return writeError(c, fiber.StatusBadRequest, "TEMPLATE_ID_REQUIRED", "template_id is required")
		}

		job, err := svc.Transform(c.UserContext(), req.TemplateID, req.Query, req.OutputFormat)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrQueryRequired):
				return writeError(c, fiber.StatusBadRequest, "QUERY_REQUIRED", "query is required")
			case errors.Is(err, docio.ErrUnsupportedFormat):
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "output format is not supported")
			case errors.Is(err, docio.ErrEmptyDocument):
				return writeError(c, fiber.StatusUnprocessableEntity, "EMPTY_TEMPLATE", "template contains no extractable text")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "template not found")
			case job != nil:
				return c.Status(fiber.StatusBadGateway).JSON(job)
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(job)
	}
}

// ListJobs returns transform jobs with limit & offset, newest first.
func ListJobs(svc service.TransformService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetJob returns a transform job by ID. While a transform is running, the
// stage field shows which pipeline task is in flight.
func GetJob(svc service.TransformService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		job, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrJobNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "job not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(job)
	}
}

// DownloadOutput streams the rendered output of a completed job as an attachment.
func DownloadOutput(svc service.TransformService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		rc, info, job, err := svc.Download(c.UserContext(), id)
		if err != nil {
			return jobOutputError(c, err)
		}

		filename := "transformed-" + job.ID + docio.Format(job.OutputFormat).Ext()
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.SendStream(rc, int(info.Size))
	}
}

// PresignOutputLink returns a time-limited direct download URL for a
// completed job's output. The optional expiry query parameter is in minutes.
func PresignOutputLink(svc service.TransformService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		minutes, err := strconv.Atoi(c.Query("expiry", "15"))
		if err != nil || minutes <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry")
		}

		url, err := svc.PresignOutput(c.UserContext(), id, time.Duration(minutes)*time.Minute)
		if err != nil {
			return jobOutputError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// PreviewOutput returns an HTML rendering of a completed job's output.
func PreviewOutput(svc service.TransformService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		html, err := svc.Preview(c.UserContext(), id)
		if err != nil {
			return jobOutputError(c, err)
		}
		return c.Type("html").Send(html)
	}
}

func jobOutputError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "job not found")
	case errors.Is(err, service.ErrJobNotDone):
		return writeError(c, fiber.StatusConflict, "JOB_NOT_READY", "job has no output yet")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
