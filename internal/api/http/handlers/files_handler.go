package handlers

import (
	"mime/multipart"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/printshop-service/internal/api/dto"
	"github.com/spec-kit/printshop-service/internal/service"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

const (
	uploadField  = "archivo"
	xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FilesHandler exposes job intake, listing, updates and export.
type FilesHandler struct {
	jobs   *service.JobService
	export *service.ExportService
}

// NewFilesHandler builds a FilesHandler.
func NewFilesHandler(jobs *service.JobService, export *service.ExportService) *FilesHandler {
	return &FilesHandler{jobs: jobs, export: export}
}

// Upload accepts a multipart job submission with one file.
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	field, header, err := pickUpload(c)
	if err != nil {
		return err
	}

	var form dto.UploadForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", map[string]any{"error": err.Error()})
	}
	if err := dto.Validate(form); err != nil {
		return err
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	result, err := h.jobs.Submit(c.UserContext(), service.SubmitInput{
		File:       file,
		FileName:   header.Filename,
		FileField:  field,
		ClientName: form.Cliente,
		NationalID: form.Identificacion,
		Email:      form.Email,
		Phone:      form.Telefono,
		Copies:     form.Copias,
		Machine:    form.Maquina,
		Notes:      form.Observaciones,
		SizeLabel:  form.Tamanio,
		Meters:     form.Metros,
		Reprint:    form.Reposicion,
		BasePrice:  form.BasePrice,
		Value:      form.Valor,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.UploadResponse{
		Message: "File uploaded and saved successfully",
		File:    result.Job,
		Client:  result.Client,
		Code:    result.Code,
	})
}

// pickUpload returns the "archivo" part, or the first file part under any other field name.
func pickUpload(c *fiber.Ctx) (string, *multipart.FileHeader, error) {
	noFile := apperrors.NewValidationError("No file uploaded", nil)
	mf, err := c.MultipartForm()
	if err != nil {
		return "", nil, noFile
	}
	if headers := mf.File[uploadField]; len(headers) > 0 {
		return uploadField, headers[0], nil
	}
	fields := make([]string, 0, len(mf.File))
	for name, headers := range mf.File {
		if len(headers) > 0 {
			fields = append(fields, name)
		}
	}
	if len(fields) == 0 {
		return "", nil, noFile
	}
	sort.Strings(fields)
	return fields[0], mf.File[fields[0]][0], nil
}

// List returns the jobs of one business day, newest first.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": jobs})
}

// Export renders the same selection as List as a spreadsheet.
func (h *FilesHandler) Export(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	body, err := h.export.JobsWorkbook(c.UserContext(), filter)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxMimeType)
	c.Attachment("trabajos-" + filter.Date + ".xlsx")
	return c.Send(body)
}

func listFilter(c *fiber.Ctx) (service.JobListFilter, error) {
	var q dto.FileListQuery
	if err := c.QueryParser(&q); err != nil {
		return service.JobListFilter{}, apperrors.NewValidationError("invalid query", map[string]any{"error": err.Error()})
	}
	if q.Fecha == "" {
		return service.JobListFilter{}, apperrors.NewValidationError("Fecha parameter is required", nil)
	}
	if err := dto.Validate(q); err != nil {
		return service.JobListFilter{}, err
	}
	return service.JobListFilter{Date: q.Fecha, Client: q.Cliente, Machine: q.Maquina, Status: q.Estado}, nil
}

// Update changes the status or the payment method of a job.
func (h *FilesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateFileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", map[string]any{"error": err.Error()})
		}
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	job, applied, err := h.jobs.Update(c.UserContext(), c.Params("id"), service.JobUpdate{
		Status:        req.Estado,
		PaymentMethod: req.MetodoPago,
	})
	if err != nil {
		return err
	}
	if !applied {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": job})
}
