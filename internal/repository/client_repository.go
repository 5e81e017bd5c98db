package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/printshop-service/internal/domain"
)

// ClientFilter captures client search terms. Empty terms are ignored; set terms must all match.
type ClientFilter struct {
	Name  string
	Phone string
	Limit int
}

// ClientRepository encapsulates client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	FindByPhone(ctx context.Context, phone string) (*domain.Client, error)
	Search(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	ListByIDRange(ctx context.Context, from, to uuid.UUID) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, nombre, identificacion, email, celular, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (id, nombre, identificacion, email, celular)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.ID,
		client.Name,
		client.NationalID,
		client.Email,
		client.Phone,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET email=$1, celular=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, client.Email, client.Phone, client.ID).Scan(&client.UpdatedAt)
	return mapNoRows(err)
}

// FindByPhone returns the oldest client registered with the phone.
func (r *clientRepository) FindByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE celular=$1 ORDER BY id ASC LIMIT 1`
	client, err := scanClient(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return client, nil
}

func (r *clientRepository) Search(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	query, args := buildClientSearchQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectClients(rows)
}

// ListByIDRange returns clients whose identifiers fall within [from, to], oldest first.
func (r *clientRepository) ListByIDRange(ctx context.Context, from, to uuid.UUID) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id >= $1 AND id <= $2 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectClients(rows)
}

func buildClientSearchQuery(filter ClientFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if name := strings.TrimSpace(filter.Name); name != "" {
		args = append(args, containsPattern(name))
		clauses = append(clauses, fmt.Sprintf("nombre ILIKE $%d", len(args)))
	}
	if phone := strings.TrimSpace(filter.Phone); phone != "" {
		args = append(args, containsPattern(phone))
		clauses = append(clauses, fmt.Sprintf("celular ILIKE $%d", len(args)))
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY nombre ASC, id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.NationalID,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectClients(rows pgx.Rows) ([]domain.Client, error) {
	defer rows.Close()
	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}
