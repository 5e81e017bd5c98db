package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus enumerates the lifecycle labels of a print job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "En proceso"
	JobStatusCompleted  JobStatus = "Completado"
	JobStatusDelivered  JobStatus = "Entregado"
	JobStatusCancelled  JobStatus = "Cancelado"
)

var jobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusDelivered,
	JobStatusCancelled,
}

// JobStatuses lists every accepted status.
func JobStatuses() []JobStatus {
	return append([]JobStatus(nil), jobStatuses...)
}

// ParseJobStatus validates a status label.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, s := range jobStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", value)
}

// PaymentMethod tags how a job was paid. It is independent of the status.
type PaymentMethod string

// Common payment methods. Other values are accepted.
const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentTransfer PaymentMethod = "Transferencia"
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentNequi    PaymentMethod = "Nequi"
)

// Job is a single print order.
type Job struct {
	ID            uuid.UUID      `json:"id"`
	OriginalName  string         `json:"nombre"`
	StoredName    string         `json:"ubicacion"`
	SubmittedAt   time.Time      `json:"fecha"`
	Status        JobStatus      `json:"status"`
	PaymentMethod *PaymentMethod `json:"metodoPago,omitempty"`
	Size          string         `json:"tamanio"`
	SizeLabel     *string        `json:"tamanioEtiqueta,omitempty"`
	ClientID      uuid.UUID      `json:"cliente"`
	Copies        int            `json:"copias"`
	Machine       *string        `json:"impresora,omitempty"`
	Notes         *string        `json:"observaciones,omitempty"`
	Meters        float64        `json:"metros"`
	Value         int64          `json:"valor"`
	Reprint       bool           `json:"reposicion"`
	Code          string         `json:"code"`
	BasePrice     *float64       `json:"basePrice,omitempty"`
	Checksum      string         `json:"checksum,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// MachineLabel returns the machine label or an empty string.
func (j *Job) MachineLabel() string {
	if j == nil || j.Machine == nil {
		return ""
	}
	return *j.Machine
}

// JobWithClient is a job enriched with its owning client.
type JobWithClient struct {
	Job
	Client *Client `json:"clienteData,omitempty"`
}
