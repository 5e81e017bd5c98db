package dto

import (
	"github.com/spec-kit/printshop-service/internal/domain"
)

// UploadForm holds the text fields of a multipart job submission.
type UploadForm struct {
	Cliente        string `form:"cliente" validate:"max=200"`
	Identificacion string `form:"identificacion" validate:"max=50"`
	Email          string `form:"email" validate:"max=200"`
	Telefono       string `form:"telefono" validate:"max=30"`
	Copias         string `form:"copias" validate:"max=10"`
	Maquina        string `form:"maquina" validate:"max=100"`
	Observaciones  string `form:"observaciones" validate:"max=2000"`
	Tamanio        string `form:"tamanio" validate:"max=100"`
	Metros         string `form:"metros" validate:"max=20"`
	Reposicion     string `form:"reposicion" validate:"max=10"`
	BasePrice      string `form:"basePrice" validate:"max=20"`
	Valor          string `form:"valor" validate:"max=20"`
}

// UploadResponse is returned after a successful submission.
type UploadResponse struct {
	Message string         `json:"message"`
	File    *domain.Job    `json:"file"`
	Client  *domain.Client `json:"client"`
	Code    string         `json:"code"`
}

// FileListQuery filters the job list of a day.
type FileListQuery struct {
	Fecha   string `query:"fecha" validate:"required,datetime=2006-01-02"`
	Cliente string `query:"cliente" validate:"max=200"`
	Maquina string `query:"maquina" validate:"max=100"`
	Estado  string `query:"estado" validate:"max=40"`
}

// UpdateFileRequest changes the status or, when no status is given, the payment method of a job.
type UpdateFileRequest struct {
	Estado     string `json:"estado" form:"estado" validate:"max=40"`
	MetodoPago string `json:"metodoPago" form:"metodoPago" validate:"max=40"`
}
