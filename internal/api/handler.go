// Package api exposes statement extraction over HTTP.
package api

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/parser"
)

const version = "2.0.0"

// ExtractResponse is the JSON body of /api/extract.
type ExtractResponse struct {
	Success           bool                 `json:"success"`
	Error             string               `json:"error,omitempty"`
	Transactions      []models.Transaction `json:"transactions"`
	Count             int                  `json:"count"`
	TotalPaidOutPence int64                `json:"totalPaidOutPence"`
	TotalPaidInPence  int64                `json:"totalPaidInPence"`
	Version           string               `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	logger    *log.Logger
	extractor *extractor.Extractor
	parser    *parser.StatementParser
}

// NewHandler wires the extraction pipeline behind the HTTP surface.
func NewHandler(logger *log.Logger, ex *extractor.Extractor, p *parser.StatementParser) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{logger: logger, extractor: ex, parser: p}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // statement PDFs are small; 32MB is generous
	})
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
	return app
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// HandleExtract accepts a multipart PDF upload in the "file" field and
// responds with the reconstructed transactions.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	fragments, err := h.extractor.Fragments(tmpPath)
	if err != nil {
		h.logger.Warn("extraction failed", "file", filepath.Base(fileHeader.Filename), "error", err)
		return writeError(c, fiber.StatusUnprocessableEntity, "PDF extraction failed: "+err.Error())
	}

	txs, err := h.parser.ExtractAll(fragments)
	if err != nil {
		h.logger.Warn("parsing failed", "file", filepath.Base(fileHeader.Filename), "error", err)
		return writeError(c, fiber.StatusUnprocessableEntity, "Statement parsing failed: "+err.Error())
	}

	var paidOut, paidIn int64
	for _, tx := range txs {
		if tx.AmountPence > 0 {
			paidOut += tx.AmountPence
		} else {
			paidIn += -tx.AmountPence
		}
	}

	// nil marshals to JSON null, not [].
	if txs == nil {
		txs = []models.Transaction{}
	}

	h.logger.Info("extracted statement",
		"file", filepath.Base(fileHeader.Filename), "transactions", len(txs))

	return c.JSON(ExtractResponse{
		Success:           true,
		Transactions:      txs,
		Count:             len(txs),
		TotalPaidOutPence: paidOut,
		TotalPaidInPence:  paidIn,
		Version:           version,
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success: false,
		Error:   msg,
	})
}
