package http

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/etax-pipeline/internal/application/dto"
	appetax "github.com/jhoicas/etax-pipeline/internal/application/etax"
	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/repository"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/tabular"
)

// Reference master file names inside the configured master directory.
const (
	vendorMasterFile   = "Mapping Vendor Code.csv"
	customerMasterFile = "Customer_Tax ID.csv"
	atAddressFile      = "AT Address.csv"
)

// ETaxHandler serves the processing and submission endpoints.
type ETaxHandler struct {
	processUC    *appetax.ProcessUseCase
	orchestrator *appetax.Orchestrator
	journal      repository.SubmissionRepository
	masterDir    string
}

// NewETaxHandler builds the handler.
func NewETaxHandler(
	processUC *appetax.ProcessUseCase,
	orchestrator *appetax.Orchestrator,
	journal repository.SubmissionRepository,
	masterDir string,
) *ETaxHandler {
	return &ETaxHandler{
		processUC:    processUC,
		orchestrator: orchestrator,
		journal:      journal,
		masterDir:    masterDir,
	}
}

// Process runs the enrichment and reconciliation pipeline over an uploaded
// transaction export and returns the processed report.
// POST /api/etax/process (multipart, field "file")
func (h *ETaxHandler) Process(c *fiber.Ctx) error {
	result, err := h.processUpload(c)
	if err != nil {
		return h.pipelineError(c, err)
	}
	return c.JSON(dto.ProcessResponse{
		Rows:     result.Rows,
		Invoices: len(result.Invoices),
		Statuses: result.Statuses,
	})
}

// Preview returns the aggregated per-invoice documents without rendering or
// submitting anything, for operator review.
// POST /api/etax/preview (multipart, field "file")
func (h *ETaxHandler) Preview(c *fiber.Ctx) error {
	result, err := h.processUpload(c)
	if err != nil {
		return h.pipelineError(c, err)
	}
	return c.JSON(result.Invoices)
}

// Submit processes the upload and runs the submission cycle for the
// aggregated invoices. Optional form fields: "doc_numbers" (comma separated)
// and "dry_run".
// POST /api/etax/submit (multipart, field "file")
func (h *ETaxHandler) Submit(c *fiber.Ctx) error {
	result, err := h.processUpload(c)
	if err != nil {
		return h.pipelineError(c, err)
	}

	req := dto.SubmitRequest{}
	if v := strings.TrimSpace(c.FormValue("doc_numbers")); v != "" {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				req.DocNumbers = append(req.DocNumbers, n)
			}
		}
	}
	req.DryRun, _ = strconv.ParseBool(c.FormValue("dry_run"))

	resp := h.orchestrator.SubmitBatch(c.Context(), result.Invoices, req)
	return c.JSON(resp)
}

// Status polls the gateway for a submitted document's processing state and
// relays the gateway body verbatim.
// POST /api/etax/status
func (h *ETaxHandler) Status(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if in.DocNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "doc_number required"})
	}
	res, err := h.orchestrator.CheckStatus(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "GATEWAY", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(res.HTTPStatus).Send(res.Response)
}

// ListSubmissions returns the newest journal entries.
// GET /api/etax/submissions?limit=50
func (h *ETaxHandler) ListSubmissions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	list, err := h.journal.ListRecent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetSubmission returns the latest journal entry for a document number.
// GET /api/etax/submissions/:doc
func (h *ETaxHandler) GetSubmission(c *fiber.Ctx) error {
	doc := c.Params("doc")
	if doc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "document number required"})
	}
	sub, err := h.journal.GetByDocNumber(c.Context(), doc)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "submission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(sub)
}

// processUpload loads the uploaded transaction file and the reference masters
// and runs the processing use case.
func (h *ETaxHandler) processUpload(c *fiber.Ctx) (*appetax.ProcessResult, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	table, err := loadUpload(fh)
	if err != nil {
		return nil, err
	}

	refs, err := h.loadMasters()
	if err != nil {
		return nil, err
	}
	return h.processUC.Process(table, refs)
}

func (h *ETaxHandler) loadMasters() (*tabular.ReferenceSet, error) {
	vendor, err := tabular.LoadFile(filepath.Join(h.masterDir, vendorMasterFile))
	if err != nil {
		return nil, err
	}
	customer, err := tabular.LoadFile(filepath.Join(h.masterDir, customerMasterFile))
	if err != nil {
		return nil, err
	}
	atAddress, err := tabular.LoadFile(filepath.Join(h.masterDir, atAddressFile))
	if err != nil {
		return nil, err
	}
	return tabular.BuildReferenceSet(vendor, customer, atAddress)
}

func loadUpload(fh *multipart.FileHeader) (*tabular.Table, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".xlsx", ".xls":
		return tabular.LoadXLSX(f)
	default:
		return tabular.LoadCSV(f)
	}
}

// pipelineError maps processing failures onto HTTP statuses.
func (h *ETaxHandler) pipelineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "multipart field \"file\" required"})
	case errors.Is(err, domain.ErrColumnMissing):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "COLUMN_MISSING", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
