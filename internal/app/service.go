package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/tablero/internal/domain"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	Logger  Logger
	Metrics *Metrics
}

// Service is the records API backing the remote data source. It assigns ids and
// creation stamps and persists records through a Repository.
type Service struct {
	repo    Repository
	idGen   IDGenerator
	clock   Clock
	logger  Logger
	metrics *Metrics
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return &Service{
		repo:    repo,
		idGen:   idGen,
		clock:   clock,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// ListItems lists items in insertion order.
func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	return listRecords(ctx, s, domain.KindItem, s.repo.Items())
}

// CreateItem creates item.
func (s *Service) CreateItem(ctx context.Context, draft domain.Item) (domain.Item, error) {
	return createRecord(ctx, s, domain.KindItem, s.repo.Items(), func(id string, now time.Time) (domain.Item, error) {
		return domain.NewItem(id, draft, now)
	})
}

// DeleteItem deletes item.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, domain.KindItem, s.repo.Items(), id)
}

// ListEmployees lists employees in insertion order.
func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return listRecords(ctx, s, domain.KindEmployee, s.repo.Employees())
}

// CreateEmployee creates employee.
func (s *Service) CreateEmployee(ctx context.Context, draft domain.Employee) (domain.Employee, error) {
	return createRecord(ctx, s, domain.KindEmployee, s.repo.Employees(), func(id string, now time.Time) (domain.Employee, error) {
		return domain.NewEmployee(id, draft, now)
	})
}

// DeleteEmployee deletes employee.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, domain.KindEmployee, s.repo.Employees(), id)
}

// ListOpportunities lists opportunities in insertion order.
func (s *Service) ListOpportunities(ctx context.Context) ([]domain.Opportunity, error) {
	return listRecords(ctx, s, domain.KindOpportunity, s.repo.Opportunities())
}

// CreateOpportunity creates opportunity.
func (s *Service) CreateOpportunity(ctx context.Context, draft domain.Opportunity) (domain.Opportunity, error) {
	return createRecord(ctx, s, domain.KindOpportunity, s.repo.Opportunities(), func(id string, now time.Time) (domain.Opportunity, error) {
		return domain.NewOpportunity(id, draft, now)
	})
}

// DeleteOpportunity deletes opportunity.
func (s *Service) DeleteOpportunity(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, domain.KindOpportunity, s.repo.Opportunities(), id)
}

// Stats summarizes every collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return Stats{}, err
	}
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return Stats{}, err
	}
	opportunities, err := s.ListOpportunities(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(items, employees, opportunities), nil
}

func listRecords[T any](ctx context.Context, s *Service, kind domain.Kind, table Table[T]) ([]T, error) {
	started := time.Now()
	records, err := table.List(ctx)
	s.metrics.observe("service", kind, OpList, err, time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func createRecord[T Identified](ctx context.Context, s *Service, kind domain.Kind, table Table[T], build func(string, time.Time) (T, error)) (T, error) {
	started := time.Now()
	var zero T
	record, err := build(s.idGen(), s.clock())
	if err != nil {
		s.metrics.observe("service", kind, OpCreate, err, time.Since(started))
		return zero, err
	}
	if err := table.Insert(ctx, record); err != nil {
		s.metrics.observe("service", kind, OpCreate, err, time.Since(started))
		return zero, fmt.Errorf("create %s: %w", kind, err)
	}
	s.metrics.observe("service", kind, OpCreate, nil, time.Since(started))
	s.logger.Info("record created", append([]any{"kind", kind, "id", record.RecordID()}, actorKeyvals(ctx)...)...)
	return record, nil
}

func deleteRecord[T any](ctx context.Context, s *Service, kind domain.Kind, table Table[T], id string) error {
	started := time.Now()
	id = strings.TrimSpace(id)
	if id == "" {
		s.metrics.observe("service", kind, OpDelete, domain.ErrInvalidID, time.Since(started))
		return domain.ErrInvalidID
	}
	err := table.Remove(ctx, id)
	s.metrics.observe("service", kind, OpDelete, err, time.Since(started))
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, id, err)
	}
	s.logger.Info("record deleted", append([]any{"kind", kind, "id", id}, actorKeyvals(ctx)...)...)
	return nil
}

func actorKeyvals(ctx context.Context) []any {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil
	}
	return []any{"actor", actor.Name, "channel", actor.Channel}
}
