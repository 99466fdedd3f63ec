package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"foldertoword/internal/config"
	"foldertoword/internal/docx"
	"foldertoword/internal/http/middleware"
	"foldertoword/internal/logger"
	"foldertoword/internal/model"
	"foldertoword/internal/service"
)

const (
	formField = "zipfile"

	msgInvalidZip = "Invalid ZIP file"
	msgProcessing = "Error processing ZIP: "
	msgExpired    = "Document expired or not found"
)

// UploadForm godoc
// @Summary Upload form
// @Description Renders the upload page. In link mode it also shows the session's latest document.
// @Tags gallery
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func UploadForm(docs service.DocumentService, mode config.DeliveryMode, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data pageData
		if mode == config.DeliveryLink && docs != nil {
			rec, err := docs.Ready(c.UserContext(), middleware.SessionKey(c))
			if err != nil {
				l := logger.WithTrace(c.UserContext(), log)
				l.Warn().Err(err).Msg("session lookup failed")
			}
			data.Ready = rec
		}
		return renderPage(c, data)
	}
}

// ConvertArchive godoc
// @Summary Convert a ZIP of image folders
// @Description Builds a .docx gallery with one heading per folder and one captioned picture per image.
// @Description In direct mode the document is returned as an attachment; in link mode the page is rendered with a download link.
// @Tags gallery
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param zipfile formData file true "ZIP archive"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid ZIP file"
// @Failure 500 {string} string "Error processing ZIP"
// @Router / [post]
func ConvertArchive(conv service.ConversionService, docs service.DocumentService, mode config.DeliveryMode, metrics *service.Metrics, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		l := logger.WithTrace(ctx, log)

		fh, err := c.FormFile(formField)
		if err != nil || !strings.HasSuffix(fh.Filename, ".zip") {
			return plainError(c, fiber.StatusBadRequest, msgInvalidZip)
		}

		f, err := fh.Open()
		if err != nil {
			return plainError(c, fiber.StatusInternalServerError, msgProcessing+err.Error())
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return plainError(c, fiber.StatusInternalServerError, msgProcessing+err.Error())
		}

		res, err := conv.Convert(ctx, data)
		if err != nil {
			l.Warn().Err(err).Str("upload", fh.Filename).Msg("conversion failed")
			return plainError(c, fiber.StatusInternalServerError, msgProcessing+err.Error())
		}

		evt := l.Info().
			Str("upload", fh.Filename).
			Str("document", res.FileName).
			Int("folders", res.Report.Folders).
			Int("embedded", res.Report.Embedded).
			Int("failed", len(res.Report.Failed))
		if len(res.Report.Failed) > 0 {
			evt = evt.Interface("failures", res.Report.Failed)
		}
		evt.Msg("gallery generated")

		if mode == config.DeliveryLink {
			doc, err := docs.Store(ctx, middleware.SessionKey(c), res)
			if err != nil {
				l.Error().Err(err).Msg("store document failed")
				return plainError(c, fiber.StatusInternalServerError, msgProcessing+err.Error())
			}
			metrics.ObserveDocument(string(mode))
			return renderPage(c, pageData{Ready: &model.SessionRecord{
				DocID:     doc.ID,
				FileName:  doc.Filename,
				UpdatedAt: doc.CreatedAt,
			}})
		}

		metrics.ObserveDocument(string(mode))
		c.Attachment(res.FileName)
		c.Set(fiber.HeaderContentType, docx.MIMEType)
		return c.Send(res.Data)
	}
}

// DownloadDocument godoc
// @Summary Download a stored document
// @Tags gallery
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param id path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {string} string "Document expired or not found"
// @Router /download/{id} [get]
func DownloadDocument(docs service.DocumentService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dl, err := docs.Open(c.UserContext(), c.Params("id"), middleware.SessionKey(c))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return plainError(c, fiber.StatusNotFound, msgExpired)
			}
			l := logger.WithTrace(c.UserContext(), log)
			l.Error().Err(err).Msg("open document failed")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Attachment(dl.Name)
		c.Set(fiber.HeaderContentType, docx.MIMEType)
		return c.Send(dl.Data)
	}
}
