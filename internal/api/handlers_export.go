package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/services"
)

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	now := handler.now().In(handler.location)
	document, err := handler.exportService.BuildDocument(c.UserContext(), now)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}

	serialized, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	from, to, message := handler.parseExportRange(c)
	if message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	rows, err := handler.exportService.BuildCSVRows(c.UserContext(), c.Query("child_id"), from, to)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}
	now := handler.now().In(handler.location)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	from, to, message := handler.parseExportRange(c)
	if message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	summary, err := handler.exportService.BuildSummary(c.UserContext(), c.Query("child_id"), from, to)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to fetch sessions")
	}

	return c.JSON(fiber.Map{
		"total_sessions": summary.TotalSessions,
		"has_data":       summary.HasData,
		"date_from":      summary.DateFrom,
		"date_to":        summary.DateTo,
	})
}

func (handler *Handler) parseExportRange(c *fiber.Ctx) (*time.Time, *time.Time, string) {
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExportFromDateInvalid):
			return nil, nil, "invalid from date"
		case errors.Is(err, services.ErrExportToDateInvalid):
			return nil, nil, "invalid to date"
		default:
			return nil, nil, "invalid range"
		}
	}
	return from, to, ""
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("lullaby-export-%s.%s", now.Format(exportDateLayout), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
