package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/printshop-service/internal/cache"
	"github.com/spec-kit/printshop-service/internal/clock"
	"github.com/spec-kit/printshop-service/internal/domain"
	"github.com/spec-kit/printshop-service/internal/observability"
	"github.com/spec-kit/printshop-service/internal/repository"
	apperrors "github.com/spec-kit/printshop-service/pkg/util/errorutil"
)

// AnalyticsService builds the dashboard report for a date range.
type AnalyticsService struct {
	stats   repository.StatsRepository
	clients repository.ClientRepository
	cache   *cache.Cache
	metrics *observability.Metrics
	logger  *zap.Logger
}

// AnalyticsDependencies bundles collaborators for the analytics service.
type AnalyticsDependencies struct {
	StatsRepo  repository.StatsRepository
	ClientRepo repository.ClientRepository
	Cache      *cache.Cache
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		stats:   deps.StatsRepo,
		clients: deps.ClientRepo,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// Stats returns the report for the UTC days from startDate through endDate, both YYYY-MM-DD.
func (s *AnalyticsService) Stats(ctx context.Context, startDate, endDate string) (*domain.StatsReport, error) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if startDate == "" || endDate == "" {
		return nil, apperrors.NewValidationError("startDate and endDate are required", nil)
	}
	start, err := clock.ParseDay(startDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid date format", map[string]any{"startDate": startDate})
	}
	end, err := clock.ParseDay(endDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid date format", map[string]any{"endDate": endDate})
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("startDate must not be after endDate", nil)
	}
	rng := clock.Days(start, end)

	var report domain.StatsReport
	hit, err := s.cache.FetchJSON(ctx, &report, func(ctx context.Context) (any, error) {
		return s.build(ctx, rng)
	}, "printshop", "stats", startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("build stats: %w", err)
	}
	if s.cache.Enabled() {
		s.metrics.RecordCacheLookup(hit)
	}
	return &report, nil
}

func (s *AnalyticsService) build(ctx context.Context, rng clock.DayRange) (*domain.StatsReport, error) {
	report := &domain.StatsReport{}
	firstID := domain.ClientIDFloor(rng.Start)
	lastID := domain.ClientIDCeil(rng.End)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.SalesDaily, err = s.stats.DailySales(ctx, rng.Start, rng.End)
		return err
	})
	g.Go(func() (err error) {
		report.PaymentMethodsDaily, err = s.stats.PaymentMethodsDaily(ctx, rng.Start, rng.End)
		return err
	})
	g.Go(func() (err error) {
		report.PaymentMethodsTotal, err = s.stats.PaymentMethodsTotal(ctx, rng.Start, rng.End)
		return err
	})
	g.Go(func() (err error) {
		report.NewClients, err = s.stats.CountClientPhones(ctx, firstID, lastID)
		return err
	})
	g.Go(func() (err error) {
		report.ReturningCustomerJobs, err = s.stats.CountReturningJobs(ctx, rng.Start, rng.End, firstID)
		return err
	})
	g.Go(func() error {
		clients, err := s.clients.ListByIDRange(ctx, firstID, lastID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(clients))
		for i, c := range clients {
			ids[i] = c.ID
		}
		jobs, err := s.stats.JobsForClients(ctx, ids, rng.Start, rng.End)
		if err != nil {
			return err
		}
		report.NewClientsList = summarizeNewClients(clients, jobs)
		return nil
	})
	g.Go(func() (err error) {
		report.PrintersResult, err = s.stats.MachineConsumption(ctx, rng.Start, rng.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if report.SalesDaily == nil {
		report.SalesDaily = []domain.DailySales{}
	}
	if report.PaymentMethodsDaily == nil {
		report.PaymentMethodsDaily = []domain.PaymentMethodDay{}
	}
	if report.PaymentMethodsTotal == nil {
		report.PaymentMethodsTotal = []domain.PaymentMethodTotal{}
	}
	if report.PrintersResult == nil {
		report.PrintersResult = []domain.MachineConsumption{}
	}
	return report, nil
}

type phoneGroup struct {
	first   domain.Client
	summary domain.NewClientSummary
}

type machineGroup struct {
	usage   domain.NewClientMachineUsage
	clients map[uuid.UUID]struct{}
}

// summarizeNewClients merges clients sharing a phone into their oldest record and totals the
// meters printed by each merged client and on each machine. clients must be ordered oldest first.
func summarizeNewClients(clients []domain.Client, jobs []repository.ClientJob) domain.NewClientsReport {
	groups := []*phoneGroup{}
	byPhone := map[string]*phoneGroup{}
	var noPhone *phoneGroup
	byClient := make(map[uuid.UUID]*phoneGroup, len(clients))

	for _, c := range clients {
		var g *phoneGroup
		if c.Phone == nil {
			g = noPhone
		} else {
			g = byPhone[*c.Phone]
		}
		if g == nil {
			g = &phoneGroup{first: c, summary: domain.NewClientSummary{
				ID:         c.ID,
				Name:       c.Name,
				Email:      c.Email,
				NationalID: c.NationalID,
				Phone:      c.Phone,
				CreatedAt:  domain.ClientIDTime(c.ID),
			}}
			groups = append(groups, g)
			if c.Phone == nil {
				noPhone = g
			} else {
				byPhone[*c.Phone] = g
			}
		}
		byClient[c.ID] = g
	}

	machines := []*machineGroup{}
	byMachine := map[string]*machineGroup{}
	var noMachine *machineGroup
	for _, j := range jobs {
		g, ok := byClient[j.ClientID]
		if !ok {
			continue
		}
		meters := j.Meters * float64(j.Copies)
		g.summary.TotalMeters += meters

		var m *machineGroup
		if j.Machine == nil {
			m = noMachine
		} else {
			m = byMachine[*j.Machine]
		}
		if m == nil {
			m = &machineGroup{
				usage:   domain.NewClientMachineUsage{Machine: j.Machine},
				clients: map[uuid.UUID]struct{}{},
			}
			machines = append(machines, m)
			if j.Machine == nil {
				noMachine = m
			} else {
				byMachine[*j.Machine] = m
			}
		}
		m.usage.TotalMeters += meters
		m.usage.Jobs++
		m.clients[g.first.ID] = struct{}{}
	}

	out := domain.NewClientsReport{
		Clients:  make([]domain.NewClientSummary, 0, len(groups)),
		Machines: make([]domain.NewClientMachineUsage, 0, len(machines)),
	}
	for _, g := range groups {
		g.summary.TotalMeters = roundTo(g.summary.TotalMeters, 2)
		out.Clients = append(out.Clients, g.summary)
	}
	sort.SliceStable(out.Clients, func(i, j int) bool {
		return out.Clients[i].CreatedAt.After(out.Clients[j].CreatedAt)
	})
	for _, m := range machines {
		m.usage.TotalMeters = roundTo(m.usage.TotalMeters, 2)
		m.usage.NewClientsWithJobs = int64(len(m.clients))
		out.Machines = append(out.Machines, m.usage)
	}
	sort.SliceStable(out.Machines, func(i, j int) bool {
		return out.Machines[i].TotalMeters > out.Machines[j].TotalMeters
	})
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
