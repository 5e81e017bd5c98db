package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/clock"
	"github.com/spec-kit/printshop-service/internal/domain"
	"github.com/spec-kit/printshop-service/internal/repository"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

// ClientService matches submissions to clients by phone number.
type ClientService struct {
	clients repository.ClientRepository
	clock   *clock.Clock
	logger  *zap.Logger
}

// ClientDependencies bundles collaborators for the client service.
type ClientDependencies struct {
	ClientRepo repository.ClientRepository
	Clock      *clock.Clock
	Logger     *zap.Logger
}

// ClientInput carries the client fields of a submission.
type ClientInput struct {
	Name       string
	NationalID string
	Email      string
	Phone      string
}

// ClientSearch holds search terms. At least one is required.
type ClientSearch struct {
	Name  string
	Phone string
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	c := deps.Clock
	if c == nil {
		c = clock.New(clock.DefaultZone)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{clients: deps.ClientRepo, clock: c, logger: logger}
}

// Resolve returns the oldest client registered with the phone, refreshing its contact details,
// or registers a new client. Concurrent submissions for a new phone may both create a client.
func (s *ClientService) Resolve(ctx context.Context, in ClientInput) (*domain.Client, error) {
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)

	if phone != "" {
		client, err := s.clients.FindByPhone(ctx, phone)
		switch {
		case err == nil:
			return s.refresh(ctx, client, email, phone)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("find client by phone: %w", err)
		}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = domain.UnknownClientName
	}
	id, err := domain.NewClientID(s.clock.BusinessNow())
	if err != nil {
		return nil, fmt.Errorf("generate client id: %w", err)
	}
	client := &domain.Client{
		ID:         id,
		Name:       name,
		NationalID: optional(in.NationalID),
		Email:      optional(email),
		Phone:      optional(phone),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.logger.Debug("client registered", zap.String("client_id", client.ID.String()))
	return client, nil
}

func (s *ClientService) refresh(ctx context.Context, client *domain.Client, email, phone string) (*domain.Client, error) {
	changed := false
	if email != "" && (client.Email == nil || *client.Email != email) {
		client.Email = &email
		changed = true
	}
	if phone != "" && (client.Phone == nil || *client.Phone != phone) {
		client.Phone = &phone
		changed = true
	}
	if !changed {
		return client, nil
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

// Search matches clients by case-insensitive substrings of name and phone.
func (s *ClientService) Search(ctx context.Context, in ClientSearch) ([]domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" && phone == "" {
		return nil, apperrors.NewValidationError("nombre or celular is required", nil)
	}
	clients, err := s.clients.Search(ctx, repository.ClientFilter{Name: name, Phone: phone})
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return clients, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
