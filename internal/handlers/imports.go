package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/bulkimport"
	"github.com/example/dawaa/internal/repository"
)

// ImportHandler exposes the bulk product import pipeline.
type ImportHandler struct {
	db        *gorm.DB
	products  *repository.ProductRepository
	stepDelay time.Duration
	log       *logrus.Entry
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(db *gorm.DB, products *repository.ProductRepository, stepDelay time.Duration, log *logrus.Entry) *ImportHandler {
	return &ImportHandler{
		db:        db,
		products:  products,
		stepDelay: stepDelay,
		log:       log,
	}
}

// ValidateImport parses the uploaded sheet and returns the classified
// preview: file-level structure verdict plus per-row statuses. Nothing
// is persisted.
func (h *ImportHandler) ValidateImport(c *fiber.Ctx) error {
	if _, err := currentPharmacyID(c, h.db); err != nil {
		return err
	}

	raw, err := h.readSheet(c)
	if err != nil {
		return err
	}

	report, err := bulkimport.ProcessFile(raw)
	if err != nil {
		if errors.Is(err, bulkimport.ErrEmptyFile) {
			return c.JSON(fiber.Map{
				"success": true,
				"data": bulkimport.Report{
					File: bulkimport.FileValidation{
						IsValid: false,
						Errors:  []string{"File is empty or could not be parsed"},
					},
				},
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// CommitImport re-validates the sheet and persists every valid and
// warning row as a product of the operator's pharmacy. Error rows are
// skipped and reported in the tally. A dropped client connection
// cancels the run between rows.
func (h *ImportHandler) CommitImport(c *fiber.Ctx) error {
	pharmacyID, err := currentPharmacyID(c, h.db)
	if err != nil {
		return err
	}

	raw, err := h.readSheet(c)
	if err != nil {
		return err
	}

	report, err := bulkimport.ProcessFile(raw)
	if err != nil {
		if errors.Is(err, bulkimport.ErrEmptyFile) {
			return fiber.NewError(fiber.StatusBadRequest, "file is empty or could not be parsed")
		}
		return err
	}
	if !report.File.IsValid {
		return fiber.NewError(fiber.StatusUnprocessableEntity, report.File.Errors[0])
	}

	committer := bulkimport.NewCommitter(h.products.ImportSink(pharmacyID), h.stepDelay, h.log)
	summary, err := committer.Commit(c.UserContext(), report.Rows, func(percent float64) {
		h.log.WithField("percent", int(percent)).Debug("import progress")
	})
	if err != nil {
		h.log.WithError(err).Warn("import aborted")
		return fiber.NewError(fiber.StatusRequestTimeout, "import cancelled")
	}

	h.log.WithFields(logrus.Fields{
		"pharmacy_id": pharmacyID,
		"total":       summary.Total,
		"successful":  summary.Successful,
		"failed":      summary.Failed,
	}).Info("product import committed")

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// Template returns the canonical header so clients can download a
// starter sheet.
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"columns":     bulkimport.TemplateColumns,
			"required":    bulkimport.RequiredColumns,
			"recommended": bulkimport.RecommendedColumns,
		},
	})
}

func (h *ImportHandler) readSheet(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		// Fall back to a raw CSV body.
		if len(c.Body()) > 0 {
			return string(c.Body()), nil
		}
		return "", fiber.NewError(fiber.StatusBadRequest, "missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "could not open uploaded file")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}
	return string(raw), nil
}
