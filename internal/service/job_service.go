package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/clock"
	"github.com/spec-kit/printshop-service/internal/domain"
	"github.com/spec-kit/printshop-service/internal/events"
	"github.com/spec-kit/printshop-service/internal/jobcode"
	"github.com/spec-kit/printshop-service/internal/observability"
	"github.com/spec-kit/printshop-service/internal/pricing"
	"github.com/spec-kit/printshop-service/internal/repository"
	"github.com/spec-kit/printshop-service/internal/storage"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

const maxPaymentMethodLen = 40

// JobService runs job intake and job mutations.
type JobService struct {
	jobs       repository.JobRepository
	clients    *ClientService
	pricing    *pricing.Engine
	codes      *jobcode.Generator
	store      storage.FileStore
	dispatcher events.Dispatcher
	clock      *clock.Clock
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// JobDependencies bundles collaborators for the job service.
type JobDependencies struct {
	JobRepo       repository.JobRepository
	ClientService *ClientService
	Pricing       *pricing.Engine
	Codes         *jobcode.Generator
	Store         storage.FileStore
	Dispatcher    events.Dispatcher
	Clock         *clock.Clock
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// SubmitInput is a raw job submission. Numeric fields arrive as form text.
type SubmitInput struct {
	File      io.Reader
	FileName  string
	FileField string

	ClientName string
	NationalID string
	Email      string
	Phone      string

	Copies    string
	Machine   string
	Notes     string
	SizeLabel string
	Meters    string
	Reprint   string
	BasePrice string
	// Value is the price the caller computed. It is logged, never stored.
	Value string
}

// SubmitResult is the outcome of a submission.
type SubmitResult struct {
	Job    *domain.Job
	Client *domain.Client
	Code   string
}

// JobListFilter selects the jobs of one business day.
type JobListFilter struct {
	Date    string
	Client  string
	Machine string
	Status  string
}

// JobUpdate carries a status or a payment method. Status wins when both are set.
type JobUpdate struct {
	Status        string
	PaymentMethod string
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	c := deps.Clock
	if c == nil {
		c = clock.New(clock.DefaultZone)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		jobs:       deps.JobRepo,
		clients:    deps.ClientService,
		pricing:    deps.Pricing,
		codes:      deps.Codes,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		clock:      c,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Submit stores the upload, resolves the client, prices the job, allocates its code and persists
// it. Work done before a failure is not rolled back.
func (s *JobService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.File == nil {
		return nil, apperrors.NewValidationError("No file uploaded", nil)
	}
	meters, err := parseMeters(in.Meters)
	if err != nil {
		return nil, err
	}
	copies := parseCopies(in.Copies)
	basePrice := parseOptionalFloat(in.BasePrice)

	stored, err := s.store.Save(ctx, storage.StoredName(in.FileField, in.FileName, s.clock.Now()), in.File)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	client, err := s.clients.Resolve(ctx, ClientInput{
		Name:       in.ClientName,
		NationalID: in.NationalID,
		Email:      in.Email,
		Phone:      in.Phone,
	})
	if err != nil {
		return nil, err
	}

	quote := pricing.Quote{Meters: meters, Copies: copies, Machine: strings.TrimSpace(in.Machine)}
	if basePrice != nil {
		quote.BasePrice = *basePrice
	}
	value := s.pricing.Price(quote)
	if in.Value != "" {
		s.logger.Debug("caller supplied value ignored",
			zap.String("caller_value", in.Value),
			zap.Int64("value", value))
	}

	code, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate job code: %w", err)
	}

	job := &domain.Job{
		OriginalName: in.FileName,
		StoredName:   stored.Name,
		SubmittedAt:  s.clock.BusinessNow(),
		Status:       domain.JobStatusInProgress,
		Size:         strconv.FormatInt(stored.Size, 10),
		SizeLabel:    optional(in.SizeLabel),
		ClientID:     client.ID,
		Copies:       copies,
		Machine:      optional(in.Machine),
		Notes:        optional(in.Notes),
		Meters:       meters,
		Value:        value,
		Reprint:      parseFlag(in.Reprint),
		Code:         code,
		BasePrice:    basePrice,
		Checksum:     stored.Checksum,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	family := s.pricing.Family(quote.Machine)
	s.metrics.RecordJobCreated(family)
	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("code", job.Code),
		zap.String("family", family),
		zap.Int64("value", job.Value))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventJobCreated,
		JobID:   job.ID.String(),
		Payload: events.JobCreatedPayload{Job: *job, Client: client, Family: family},
	})

	return &SubmitResult{Job: job, Client: client, Code: code}, nil
}

// List returns the jobs submitted on the given day, newest first.
func (s *JobService) List(ctx context.Context, in JobListFilter) ([]domain.JobWithClient, error) {
	filter, err := s.listFilter(in)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) listFilter(in JobListFilter) (repository.JobFilter, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return repository.JobFilter{}, apperrors.NewValidationError("Fecha parameter is required (YYYY-MM-DD)", nil)
	}
	day, err := clock.ParseDay(date)
	if err != nil {
		return repository.JobFilter{}, apperrors.NewValidationError("Invalid date format", map[string]any{"fecha": date})
	}
	bounds := clock.Days(day, day)
	filter := repository.JobFilter{
		From:    bounds.Start,
		To:      bounds.End,
		Client:  in.Client,
		Machine: in.Machine,
	}
	if raw := strings.TrimSpace(in.Status); raw != "" {
		status, err := domain.ParseJobStatus(raw)
		if err != nil {
			return repository.JobFilter{}, apperrors.NewValidationError("Invalid estado", map[string]any{"allowed": domain.JobStatuses()})
		}
		filter.Status = &status
	}
	return filter, nil
}

// Update changes the status or the payment method of a job. applied is false when the update
// named neither field. An unknown job yields a nil job and no error.
func (s *JobService) Update(ctx context.Context, id string, in JobUpdate) (job *domain.Job, applied bool, err error) {
	jobID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, false, apperrors.NewValidationError("Invalid file id", map[string]any{"id": id})
	}

	status := strings.TrimSpace(in.Status)
	method := strings.TrimSpace(in.PaymentMethod)
	var field string
	switch {
	case status != "":
		parsed, perr := domain.ParseJobStatus(status)
		if perr != nil {
			return nil, false, apperrors.NewValidationError("Invalid estado", map[string]any{"allowed": domain.JobStatuses()})
		}
		field = "status"
		job, err = s.jobs.UpdateStatus(ctx, jobID, parsed)
	case method != "":
		if len([]rune(method)) > maxPaymentMethodLen {
			return nil, false, apperrors.NewValidationError("metodoPago is too long", map[string]any{"max": maxPaymentMethodLen})
		}
		field = "metodoPago"
		job, err = s.jobs.UpdatePaymentMethod(ctx, jobID, domain.PaymentMethod(method))
	default:
		return nil, false, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, true, nil
	}
	if err != nil {
		return nil, true, fmt.Errorf("update job %s: %w", field, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventJobUpdated,
		JobID:   job.ID.String(),
		Payload: events.JobUpdatedPayload{Field: field, Job: *job},
	})
	return job, true, nil
}

func (s *JobService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// parseMeters accepts a dot or comma decimal. Blank means zero.
func parseMeters(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	meters, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(meters) || math.IsInf(meters, 0) || meters < 0 {
		return 0, apperrors.NewValidationError("metros must be a non-negative number", map[string]any{"metros": raw})
	}
	return meters, nil
}

func parseCopies(raw string) int {
	copies, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || copies < 1 {
		return 1
	}
	return copies
}

func parseOptionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseFlag reads a form checkbox. Unrecognised non-empty values count as set.
func parseFlag(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return true
}
