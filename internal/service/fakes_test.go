package service

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/printshop-service/internal/domain"
	"github.com/spec-kit/printshop-service/internal/repository"
)

type fakeClientRepo struct {
	mu      sync.Mutex
	clients []*domain.Client
	updates int
}

func (r *fakeClientRepo) Create(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.clients = append(r.clients, &cp)
	return nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clients {
		if existing.ID == c.ID {
			existing.Email = c.Email
			existing.Phone = c.Phone
			r.updates++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeClientRepo) FindByPhone(_ context.Context, phone string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.Client
	for _, c := range r.clients {
		if c.Phone != nil && *c.Phone == phone {
			if found == nil || bytes.Compare(c.ID[:], found.ID[:]) < 0 {
				found = c
			}
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *fakeClientRepo) Search(_ context.Context, f repository.ClientFilter) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Client{}
	for _, c := range r.clients {
		if f.Name != "" && !containsFold(c.Name, f.Name) {
			continue
		}
		if f.Phone != "" && !containsFold(c.PhoneKey(), f.Phone) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeClientRepo) ListByIDRange(_ context.Context, from, to uuid.UUID) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Client{}
	for _, c := range r.clients {
		if bytes.Compare(c.ID[:], from[:]) >= 0 && bytes.Compare(c.ID[:], to[:]) <= 0 {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out, nil
}

func (r *fakeClientRepo) byID(id uuid.UUID) *domain.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.ID == id {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (r *fakeClientRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

type fakeJobRepo struct {
	mu      sync.Mutex
	jobs    []*domain.Job
	clients *fakeClientRepo
	now     func() time.Time
	filters []repository.JobFilter
}

func newFakeJobRepo(clients *fakeClientRepo, now func() time.Time) *fakeJobRepo {
	return &fakeJobRepo{clients: clients, now: now}
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = uuid.New()
	job.CreatedAt = r.now().UTC()
	job.UpdatedAt = job.CreatedAt
	cp := *job
	r.jobs = append(r.jobs, &cp)
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeJobRepo) CodeTaken(_ context.Context, code string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.Code == code && !j.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeJobRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.JobStatus) (*domain.Job, error) {
	return r.mutate(id, func(j *domain.Job) { j.Status = status })
}

func (r *fakeJobRepo) UpdatePaymentMethod(_ context.Context, id uuid.UUID, method domain.PaymentMethod) (*domain.Job, error) {
	return r.mutate(id, func(j *domain.Job) { j.PaymentMethod = &method })
}

func (r *fakeJobRepo) mutate(id uuid.UUID, fn func(*domain.Job)) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			fn(j)
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeJobRepo) List(_ context.Context, f repository.JobFilter) ([]domain.JobWithClient, error) {
	r.mu.Lock()
	jobs := append([]*domain.Job(nil), r.jobs...)
	r.filters = append(r.filters, f)
	r.mu.Unlock()

	out := []domain.JobWithClient{}
	for _, j := range jobs {
		if j.SubmittedAt.Before(f.From) || j.SubmittedAt.After(f.To) {
			continue
		}
		client := r.clients.byID(j.ClientID)
		if f.Client != "" && (client == nil || (!containsFold(client.Name, f.Client) && !containsFold(client.PhoneKey(), f.Client))) {
			continue
		}
		if f.Machine != "" && !containsFold(j.MachineLabel(), f.Machine) {
			continue
		}
		if f.Status != nil && j.Status != *f.Status {
			continue
		}
		out = append(out, domain.JobWithClient{Job: *j, Client: client})
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].SubmittedAt.After(out[k].SubmittedAt) })
	return out, nil
}

func (r *fakeJobRepo) all() []domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = *j
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type countingInvalidator struct {
	mu    sync.Mutex
	bumps int
}

func (c *countingInvalidator) Bump(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bumps++
	return nil
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bumps
}
