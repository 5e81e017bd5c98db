package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/printshop-service/internal/domain"
)

// JobFilter selects the jobs submitted within [From, To].
type JobFilter struct {
	From time.Time
	To   time.Time
	// Client matches a substring of the owning client's name or phone, case-insensitively.
	Client string
	// Machine matches a substring of the machine label, case-insensitively.
	Machine string
	Status  *domain.JobStatus
}

// JobRepository encapsulates print job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	CodeTaken(ctx context.Context, code string, since time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) (*domain.Job, error)
	UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]domain.JobWithClient, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `j.id, j.nombre, j.ubicacion, j.fecha, j.status, j.metodo_pago, j.tamanio, j.tamanio_etiqueta,
               j.cliente_id, j.copias, j.impresora, j.observaciones, j.metros, j.valor, j.reposicion,
               j.code, j.base_price, j.checksum, j.created_at, j.updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (nombre, ubicacion, fecha, status, metodo_pago, tamanio, tamanio_etiqueta, cliente_id,
            copias, impresora, observaciones, metros, valor, reposicion, code, base_price, checksum)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		job.OriginalName,
		job.StoredName,
		job.SubmittedAt,
		job.Status,
		job.PaymentMethod,
		job.Size,
		job.SizeLabel,
		job.ClientID,
		job.Copies,
		job.Machine,
		job.Notes,
		job.Meters,
		job.Value,
		job.Reprint,
		job.Code,
		job.BasePrice,
		job.Checksum,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return err
	}
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.id=$1`
	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return job, nil
}

// CodeTaken reports whether a job with the code was created at or after since.
func (r *jobRepository) CodeTaken(ctx context.Context, code string, since time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM jobs WHERE code=$1 AND created_at >= $2)`
	var taken bool
	if err := r.pool.QueryRow(ctx, query, code, since).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) (*domain.Job, error) {
	return r.updateField(ctx, "status", id, status)
}

func (r *jobRepository) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) (*domain.Job, error) {
	return r.updateField(ctx, "metodo_pago", id, method)
}

// updateField sets a single mutable column. column is never caller supplied.
func (r *jobRepository) updateField(ctx context.Context, column string, id uuid.UUID, value any) (*domain.Job, error) {
	query := fmt.Sprintf(`UPDATE jobs j SET %s=$1, updated_at=NOW() WHERE j.id=$2 RETURNING %s`, column, jobColumns)
	job, err := scanJob(r.pool.QueryRow(ctx, query, value, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]domain.JobWithClient, error) {
	query, args := buildJobListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.JobWithClient{}
	for rows.Next() {
		var (
			item   domain.JobWithClient
			client domain.Client
			cid    *uuid.UUID
			cname  *string
			cAt    *time.Time
			cUpAt  *time.Time
		)
		if err := rows.Scan(append(jobScanTargets(&item.Job),
			&cid,
			&cname,
			&client.NationalID,
			&client.Email,
			&client.Phone,
			&cAt,
			&cUpAt,
		)...); err != nil {
			return nil, err
		}
		normalizeJobTimes(&item.Job)
		if cid != nil {
			client.ID = *cid
			if cname != nil {
				client.Name = *cname
			}
			if cAt != nil {
				client.CreatedAt = cAt.UTC()
			}
			if cUpAt != nil {
				client.UpdatedAt = cUpAt.UTC()
			}
			item.Client = &client
		}
		jobs = append(jobs, item)
	}
	return jobs, rows.Err()
}

func buildJobListQuery(filter JobFilter) (string, []any) {
	base := `SELECT ` + jobColumns + `,
               c.id, c.nombre, c.identificacion, c.email, c.celular, c.created_at, c.updated_at
             FROM jobs j
             LEFT JOIN clients c ON c.id = j.cliente_id`
	args := []any{filter.From, filter.To}
	clauses := []string{"j.fecha >= $1", "j.fecha <= $2"}

	if term := strings.TrimSpace(filter.Client); term != "" {
		args = append(args, containsPattern(term))
		clauses = append(clauses, fmt.Sprintf("(c.nombre ILIKE $%d OR c.celular ILIKE $%d)", len(args), len(args)))
	}
	if term := strings.TrimSpace(filter.Machine); term != "" {
		args = append(args, containsPattern(term))
		clauses = append(clauses, fmt.Sprintf("j.impresora ILIKE $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("j.status = $%d", len(args)))
	}

	return base + "\n             WHERE " + strings.Join(clauses, " AND ") + "\n             ORDER BY j.fecha DESC, j.created_at DESC", args
}

func jobScanTargets(job *domain.Job) []any {
	return []any{
		&job.ID,
		&job.OriginalName,
		&job.StoredName,
		&job.SubmittedAt,
		&job.Status,
		&job.PaymentMethod,
		&job.Size,
		&job.SizeLabel,
		&job.ClientID,
		&job.Copies,
		&job.Machine,
		&job.Notes,
		&job.Meters,
		&job.Value,
		&job.Reprint,
		&job.Code,
		&job.BasePrice,
		&job.Checksum,
		&job.CreatedAt,
		&job.UpdatedAt,
	}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(jobScanTargets(&job)...); err != nil {
		return nil, err
	}
	normalizeJobTimes(&job)
	return &job, nil
}

func normalizeJobTimes(job *domain.Job) {
	job.SubmittedAt = job.SubmittedAt.UTC()
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
}
