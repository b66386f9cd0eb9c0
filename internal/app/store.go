package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hylla/tablero/internal/domain"
)

// Sources holds one data source per record kind.
type Sources struct {
	Items         Source[domain.Item]
	Employees     Source[domain.Employee]
	Opportunities Source[domain.Opportunity]
}

// StoreConfig holds optional collaborators for a Store.
type StoreConfig struct {
	IDGen   IDGenerator
	Clock   Clock
	Logger  Logger
	Metrics *Metrics
}

// Store is the record store controller for every kind. One Gate is shared by all kinds.
type Store struct {
	gate          Gate
	logger        Logger
	items         *Controller[domain.Item, domain.ItemPatch]
	employees     *Controller[domain.Employee, domain.EmployeePatch]
	opportunities *Controller[domain.Opportunity, domain.OpportunityPatch]
}

// NewStore constructs a store over sources.
func NewStore(sources Sources, cfg StoreConfig) (*Store, error) {
	if sources.Items == nil || sources.Employees == nil || sources.Opportunities == nil {
		return nil, errors.New("a source is required for every record kind")
	}
	if cfg.IDGen == nil {
		cfg.IDGen = newTimeOrderedID
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	s := &Store{logger: cfg.Logger}
	s.items = newController[domain.Item, domain.ItemPatch](domain.KindItem, sources.Items, &s.gate, cfg)
	s.employees = newController[domain.Employee, domain.EmployeePatch](domain.KindEmployee, sources.Employees, &s.gate, cfg)
	s.opportunities = newController[domain.Opportunity, domain.OpportunityPatch](domain.KindOpportunity, sources.Opportunities, &s.gate, cfg)
	s.items.refetch = s.refetch
	s.employees.refetch = s.refetch
	s.opportunities.refetch = s.refetch
	return s, nil
}

// Items returns the item controller.
func (s *Store) Items() *Controller[domain.Item, domain.ItemPatch] { return s.items }

// Employees returns the employee controller.
func (s *Store) Employees() *Controller[domain.Employee, domain.EmployeePatch] { return s.employees }

// Opportunities returns the opportunity controller.
func (s *Store) Opportunities() *Controller[domain.Opportunity, domain.OpportunityPatch] {
	return s.opportunities
}

// Busy reports whether an operation is outstanding.
func (s *Store) Busy() bool {
	return s.gate.Busy()
}

// Mode reports how mutations are reconciled.
func (s *Store) Mode() Sync {
	return s.items.source.Sync()
}

// Supports reports whether the source for kind implements op.
func (s *Store) Supports(kind domain.Kind, op Op) bool {
	switch kind {
	case domain.KindItem:
		return s.items.Supports(op)
	case domain.KindEmployee:
		return s.employees.Supports(op)
	case domain.KindOpportunity:
		return s.opportunities.Supports(op)
	default:
		return false
	}
}

// Delete removes the record with id from the kind's collection.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, id string) ([]Effect, error) {
	switch kind {
	case domain.KindItem:
		return s.items.Delete(ctx, id)
	case domain.KindEmployee:
		return s.employees.Delete(ctx, id)
	case domain.KindOpportunity:
		return s.opportunities.Delete(ctx, id)
	default:
		return nil, domain.ErrInvalidKind
	}
}

// BeginEdit marks a record as the edit target of its kind.
func (s *Store) BeginEdit(kind domain.Kind, id string) error {
	switch kind {
	case domain.KindItem:
		return s.items.BeginEdit(id)
	case domain.KindEmployee:
		return s.employees.BeginEdit(id)
	case domain.KindOpportunity:
		return s.opportunities.BeginEdit(id)
	default:
		return domain.ErrInvalidKind
	}
}

// CancelEdit clears the edit target of kind.
func (s *Store) CancelEdit(kind domain.Kind) {
	switch kind {
	case domain.KindItem:
		s.items.CancelEdit()
	case domain.KindEmployee:
		s.employees.CancelEdit()
	case domain.KindOpportunity:
		s.opportunities.CancelEdit()
	}
}

// FetchAll loads every collection in order, one request at a time. Kinds whose source
// does not list are skipped. The first failure stops the remaining fetches and yields a
// single connectivity notification.
func (s *Store) FetchAll(ctx context.Context) ([]Effect, error) {
	if err := s.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer s.gate.Release()
	return s.fetchAll(ctx)
}

func (s *Store) fetchAll(ctx context.Context) ([]Effect, error) {
	loaders := []interface {
		Supports(Op) bool
		reload(context.Context) ([]Effect, error)
	}{s.items, s.employees, s.opportunities}
	for _, loader := range loaders {
		if !loader.Supports(OpList) {
			continue
		}
		if effects, err := loader.reload(ctx); err != nil {
			return effects, err
		}
	}
	return nil, nil
}

func (s *Store) refetch(ctx context.Context) []Effect {
	effects, err := s.fetchAll(ctx)
	if err != nil {
		s.logger.Warn("refetch after mutation failed", "err", err)
	}
	return effects
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	Items         []domain.Item
	Employees     []domain.Employee
	Opportunities []domain.Opportunity
	Editing       map[domain.Kind]string
	Busy          bool
	Mode          Sync
}

// Snapshot returns a copy of every collection.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Items:         s.items.Records(),
		Employees:     s.employees.Records(),
		Opportunities: s.opportunities.Records(),
		Editing:       map[domain.Kind]string{},
		Busy:          s.Busy(),
		Mode:          s.Mode(),
	}
	if item, ok := s.items.Editing(); ok {
		snap.Editing[domain.KindItem] = item.ID
	}
	if emp, ok := s.employees.Editing(); ok {
		snap.Editing[domain.KindEmployee] = emp.ID
	}
	if opp, ok := s.opportunities.Editing(); ok {
		snap.Editing[domain.KindOpportunity] = opp.ID
	}
	return snap
}

// Stats summarizes the current collections.
func (s *Store) Stats() Stats {
	return ComputeStats(s.items.Records(), s.employees.Records(), s.opportunities.Records())
}

func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
