package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/printshop-service/internal/domain"
)

// ClientJob is the slice of a job the new-client report needs.
type ClientJob struct {
	ClientID uuid.UUID
	Machine  *string
	Meters   float64
	Copies   int
}

// StatsRepository runs the read-only aggregations behind the dashboard. Every method bounds jobs
// by submission time within [from, to].
type StatsRepository interface {
	DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)
	PaymentMethodsDaily(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodDay, error)
	PaymentMethodsTotal(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodTotal, error)
	// CountClientPhones counts distinct phones among clients whose identifiers fall within [fromID, toID].
	CountClientPhones(ctx context.Context, fromID, toID uuid.UUID) (int64, error)
	// CountReturningJobs counts jobs whose client identifier precedes beforeID.
	CountReturningJobs(ctx context.Context, from, to time.Time, beforeID uuid.UUID) (int64, error)
	MachineConsumption(ctx context.Context, from, to time.Time) ([]domain.MachineConsumption, error)
	JobsForClients(ctx context.Context, clientIDs []uuid.UUID, from, to time.Time) ([]ClientJob, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

const utcDay = `to_char(fecha AT TIME ZONE 'UTC', 'YYYY-MM-DD')`

func (r *statsRepository) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	query := `
        SELECT ` + utcDay + ` AS day, COALESCE(SUM(valor), 0)::bigint, COUNT(*)
        FROM jobs
        WHERE fecha >= $1 AND fecha <= $2
        GROUP BY day
        ORDER BY day ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailySales, error) {
		var d domain.DailySales
		err := row.Scan(&d.Date, &d.TotalSales, &d.Count)
		return d, err
	})
}

func (r *statsRepository) PaymentMethodsDaily(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodDay, error) {
	query := `
        SELECT ` + utcDay + ` AS day, metodo_pago, COUNT(*), COALESCE(SUM(valor), 0)::bigint
        FROM jobs
        WHERE fecha >= $1 AND fecha <= $2
        GROUP BY day, metodo_pago
        ORDER BY day ASC, metodo_pago ASC NULLS FIRST`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentMethodDay, error) {
		var d domain.PaymentMethodDay
		err := row.Scan(&d.Date, &d.Method, &d.Count, &d.Total)
		return d, err
	})
}

func (r *statsRepository) PaymentMethodsTotal(ctx context.Context, from, to time.Time) ([]domain.PaymentMethodTotal, error) {
	const query = `
        SELECT metodo_pago, COUNT(*), COALESCE(SUM(valor), 0)::bigint
        FROM jobs
        WHERE fecha >= $1 AND fecha <= $2
        GROUP BY metodo_pago
        ORDER BY COUNT(*) DESC, metodo_pago ASC NULLS FIRST`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentMethodTotal, error) {
		var d domain.PaymentMethodTotal
		err := row.Scan(&d.Method, &d.Count, &d.Total)
		return d, err
	})
}

func (r *statsRepository) CountClientPhones(ctx context.Context, fromID, toID uuid.UUID) (int64, error) {
	// GROUP BY folds clients without a phone into a single group.
	const query = `
        SELECT COUNT(*) FROM (
            SELECT celular FROM clients WHERE id >= $1 AND id <= $2 GROUP BY celular
        ) phones`
	var count int64
	err := r.pool.QueryRow(ctx, query, fromID, toID).Scan(&count)
	return count, err
}

func (r *statsRepository) CountReturningJobs(ctx context.Context, from, to time.Time, beforeID uuid.UUID) (int64, error) {
	const query = `
        SELECT COUNT(*)
        FROM jobs j
        JOIN clients c ON c.id = j.cliente_id
        WHERE j.fecha >= $1 AND j.fecha <= $2 AND c.id < $3`
	var count int64
	err := r.pool.QueryRow(ctx, query, from, to, beforeID).Scan(&count)
	return count, err
}

func (r *statsRepository) MachineConsumption(ctx context.Context, from, to time.Time) ([]domain.MachineConsumption, error) {
	query := `
        SELECT COALESCE(impresora, '` + domain.NoMachineLabel + `') AS machine,
               ROUND(COALESCE(SUM(metros * copias), 0)::numeric, 2)::float8 AS total,
               COUNT(*)
        FROM jobs
        WHERE fecha >= $1 AND fecha <= $2
        GROUP BY machine
        ORDER BY total DESC, machine ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MachineConsumption, error) {
		var m domain.MachineConsumption
		err := row.Scan(&m.Machine, &m.TotalMeters, &m.Jobs)
		return m, err
	})
}

func (r *statsRepository) JobsForClients(ctx context.Context, clientIDs []uuid.UUID, from, to time.Time) ([]ClientJob, error) {
	if len(clientIDs) == 0 {
		return []ClientJob{}, nil
	}
	const query = `
        SELECT cliente_id, impresora, metros, copias
        FROM jobs
        WHERE cliente_id = ANY($1) AND fecha >= $2 AND fecha <= $3`
	rows, err := r.pool.Query(ctx, query, clientIDs, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ClientJob, error) {
		var j ClientJob
		err := row.Scan(&j.ClientID, &j.Machine, &j.Meters, &j.Copies)
		return j, err
	})
}
