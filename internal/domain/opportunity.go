package domain

import (
	"math"
	"strings"
	"time"
)

// Opportunity is a sales pipeline record.
type Opportunity struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Client      string   `json:"client" yaml:"client"`
	Value       float64  `json:"value" yaml:"value"`
	Status      Stage    `json:"status" yaml:"status"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Deadline    Date     `json:"deadline" yaml:"deadline"`
	Description string   `json:"description" yaml:"description"`
}

// OpportunityPatch holds the opportunity fields an update may change.
type OpportunityPatch struct {
	Title       *string
	Client      *string
	Value       *float64
	Status      *Stage
	Priority    *Priority
	Deadline    *Date
	Description *string
}

// NewOpportunity validates draft and stamps it with id.
func NewOpportunity(id string, draft Opportunity, now time.Time) (Opportunity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Opportunity{}, ErrInvalidID
	}
	opp := draft.Normalize()
	if err := opp.Validate(); err != nil {
		return Opportunity{}, err
	}
	return opp.Stamp(id, now), nil
}

// RecordID returns the opportunity id.
func (o Opportunity) RecordID() string { return o.ID }

// Normalize trims text fields and fills form defaults.
func (o Opportunity) Normalize() Opportunity {
	o.Title = strings.TrimSpace(o.Title)
	o.Client = strings.TrimSpace(o.Client)
	o.Description = strings.TrimSpace(o.Description)
	o.Deadline = Date(strings.TrimSpace(string(o.Deadline)))
	if o.Status == "" {
		o.Status = StageLead
	} else if stage, err := ParseStage(string(o.Status)); err == nil {
		o.Status = stage
	}
	if o.Priority == "" {
		o.Priority = PriorityMedium
	} else if priority, err := ParsePriority(string(o.Priority)); err == nil {
		o.Priority = priority
	}
	return o
}

// Validate checks required fields and enum values.
func (o Opportunity) Validate() error {
	switch {
	case strings.TrimSpace(o.Title) == "":
		return ErrInvalidTitle
	case strings.TrimSpace(o.Client) == "":
		return ErrInvalidClient
	case o.Value < 0 || math.IsNaN(o.Value) || math.IsInf(o.Value, 0):
		return ErrInvalidValue
	case !o.Deadline.valid():
		return ErrInvalidDate
	case strings.TrimSpace(o.Description) == "":
		return ErrInvalidDescription
	}
	if _, err := ParseStage(string(o.Status)); err != nil {
		return err
	}
	if _, err := ParsePriority(string(o.Priority)); err != nil {
		return err
	}
	return nil
}

// Stamp assigns the identity.
func (o Opportunity) Stamp(id string, _ time.Time) Opportunity {
	o.ID = id
	return o
}

// Apply merges p into a copy of o. ID never changes.
func (o Opportunity) Apply(p OpportunityPatch) Opportunity {
	if p.Title != nil {
		o.Title = strings.TrimSpace(*p.Title)
	}
	if p.Client != nil {
		o.Client = strings.TrimSpace(*p.Client)
	}
	if p.Value != nil {
		o.Value = *p.Value
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Priority != nil {
		o.Priority = *p.Priority
	}
	if p.Deadline != nil {
		o.Deadline = *p.Deadline
	}
	if p.Description != nil {
		o.Description = strings.TrimSpace(*p.Description)
	}
	return o
}

// PatchFrom returns a patch that sets every mutable field of o.
func (o Opportunity) PatchFrom() OpportunityPatch {
	return OpportunityPatch{
		Title:       &o.Title,
		Client:      &o.Client,
		Value:       &o.Value,
		Status:      &o.Status,
		Priority:    &o.Priority,
		Deadline:    &o.Deadline,
		Description: &o.Description,
	}
}
