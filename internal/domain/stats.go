package domain

import (
	"time"

	"github.com/google/uuid"
)

// NoMachineLabel groups jobs submitted without a machine.
const NoMachineLabel = "SIN_IMPRESORA"

// DailySales aggregates job value for one UTC day.
type DailySales struct {
	Date       string `json:"_id"`
	TotalSales int64  `json:"totalSales"`
	Count      int64  `json:"count"`
}

// PaymentMethodDay aggregates jobs per day and payment method.
type PaymentMethodDay struct {
	Date   string  `json:"date"`
	Method *string `json:"method"`
	Count  int64   `json:"count"`
	Total  int64   `json:"total"`
}

// PaymentMethodTotal aggregates jobs per payment method over the whole range.
type PaymentMethodTotal struct {
	Method *string `json:"_id"`
	Count  int64   `json:"count"`
	Total  int64   `json:"total"`
}

// NewClientSummary describes one client first seen within the range, merged by phone.
type NewClientSummary struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"nombre"`
	Email       *string   `json:"email,omitempty"`
	NationalID  *string   `json:"identificacion,omitempty"`
	Phone       *string   `json:"celular,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	TotalMeters float64   `json:"totalMetros"`
}

// NewClientMachineUsage aggregates new-client work per machine.
type NewClientMachineUsage struct {
	Machine            *string `json:"impresora"`
	TotalMeters        float64 `json:"totalMetros"`
	Jobs               int64   `json:"trabajos"`
	NewClientsWithJobs int64   `json:"clientesNuevosConTrabajo"`
}

// NewClientsReport is the new-client detail of a stats report.
type NewClientsReport struct {
	Clients  []NewClientSummary      `json:"clientes"`
	Machines []NewClientMachineUsage `json:"impresoras"`
}

// MachineConsumption aggregates all jobs of the range per machine.
type MachineConsumption struct {
	Machine     string  `json:"impresora"`
	TotalMeters float64 `json:"totalMetros"`
	Jobs        int64   `json:"trabajos"`
}

// StatsReport is the dashboard report for a date range.
type StatsReport struct {
	SalesDaily            []DailySales         `json:"salesDaily"`
	PaymentMethodsDaily   []PaymentMethodDay   `json:"paymentMethodsDaily"`
	PaymentMethodsTotal   []PaymentMethodTotal `json:"paymentMethodsTotal"`
	NewClients            int64                `json:"newClients"`
	ReturningCustomerJobs int64                `json:"returningCustomerJobs"`
	NewClientsList        NewClientsReport     `json:"newClientsList"`
	PrintersResult        []MachineConsumption `json:"printersResult"`
}
