package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/printshop-service/internal/domain"
	"github.com/spec-kit/printshop-service/internal/repository"
)

type memClients struct {
	mu      sync.Mutex
	clients []domain.Client
}

func (r *memClients) Create(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.clients = append(r.clients, *c)
	return nil
}

func (r *memClients) Update(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].ID == c.ID {
			r.clients[i].Email = c.Email
			r.clients[i].Phone = c.Phone
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memClients) FindByPhone(_ context.Context, phone string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Phone != nil && *c.Phone == phone {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memClients) Search(_ context.Context, f repository.ClientFilter) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Client{}
	for _, c := range r.clients {
		if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Phone != "" && !strings.Contains(c.PhoneKey(), f.Phone) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memClients) ListByIDRange(_ context.Context, from, to uuid.UUID) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Client{}
	for _, c := range r.clients {
		if bytes.Compare(c.ID[:], from[:]) >= 0 && bytes.Compare(c.ID[:], to[:]) <= 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memClients) byID(id uuid.UUID) *domain.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.ID == id {
			cp := c
			return &cp
		}
	}
	return nil
}

type memJobs struct {
	mu      sync.Mutex
	jobs    []domain.Job
	clients *memClients
	now     func() time.Time
}

func (r *memJobs) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = uuid.New()
	job.CreatedAt = r.now().UTC()
	job.UpdatedAt = job.CreatedAt
	r.jobs = append(r.jobs, *job)
	return nil
}

func (r *memJobs) GetByID(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			cp := j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memJobs) CodeTaken(_ context.Context, code string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.Code == code && !j.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memJobs) UpdateStatus(_ context.Context, id uuid.UUID, status domain.JobStatus) (*domain.Job, error) {
	return r.mutate(id, func(j *domain.Job) { j.Status = status })
}

func (r *memJobs) UpdatePaymentMethod(_ context.Context, id uuid.UUID, method domain.PaymentMethod) (*domain.Job, error) {
	return r.mutate(id, func(j *domain.Job) { j.PaymentMethod = &method })
}

func (r *memJobs) mutate(id uuid.UUID, fn func(*domain.Job)) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			fn(&r.jobs[i])
			cp := r.jobs[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memJobs) List(_ context.Context, f repository.JobFilter) ([]domain.JobWithClient, error) {
	r.mu.Lock()
	jobs := append([]domain.Job(nil), r.jobs...)
	r.mu.Unlock()

	out := []domain.JobWithClient{}
	for _, j := range jobs {
		if j.SubmittedAt.Before(f.From) || j.SubmittedAt.After(f.To) {
			continue
		}
		if f.Status != nil && j.Status != *f.Status {
			continue
		}
		out = append(out, domain.JobWithClient{Job: j, Client: r.clients.byID(j.ClientID)})
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].SubmittedAt.After(out[k].SubmittedAt) })
	return out, nil
}

type emptyStats struct{}

func (emptyStats) DailySales(context.Context, time.Time, time.Time) ([]domain.DailySales, error) {
	return []domain.DailySales{{Date: "2025-06-02", TotalSales: 30000, Count: 1}}, nil
}

func (emptyStats) PaymentMethodsDaily(context.Context, time.Time, time.Time) ([]domain.PaymentMethodDay, error) {
	return nil, nil
}

func (emptyStats) PaymentMethodsTotal(context.Context, time.Time, time.Time) ([]domain.PaymentMethodTotal, error) {
	return nil, nil
}

func (emptyStats) CountClientPhones(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

func (emptyStats) CountReturningJobs(context.Context, time.Time, time.Time, uuid.UUID) (int64, error) {
	return 0, nil
}

func (emptyStats) MachineConsumption(context.Context, time.Time, time.Time) ([]domain.MachineConsumption, error) {
	return nil, nil
}

func (emptyStats) JobsForClients(context.Context, []uuid.UUID, time.Time, time.Time) ([]repository.ClientJob, error) {
	return nil, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("connection refused")
