// Package seed loads initial record collections from YAML.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

//go:embed default.yaml
var defaultSeed []byte

// Data is the seed document.
type Data struct {
	Items         []domain.Item        `yaml:"items"`
	Employees     []domain.Employee    `yaml:"employees"`
	Opportunities []domain.Opportunity `yaml:"opportunities"`
}

// Default returns the built-in sample records.
func Default() (Data, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file. An empty path selects the built-in seed.
func Load(path string) (Data, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(content)
}

// Parse decodes and validates a seed document.
func Parse(content []byte) (Data, error) {
	var data Data
	if err := yaml.Unmarshal(content, &data); err != nil {
		return Data{}, fmt.Errorf("decode seed yaml: %w", err)
	}
	if err := data.normalize(); err != nil {
		return Data{}, err
	}
	return data, nil
}

func (d *Data) normalize() error {
	seen := map[string]struct{}{}
	check := func(kind domain.Kind, idx int, id string, err error) error {
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", kind.Plural(), idx, err)
		}
		key := string(kind) + "/" + id
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%s[%d]: duplicate id %q", kind.Plural(), idx, id)
		}
		seen[key] = struct{}{}
		return nil
	}
	for i, item := range d.Items {
		item = item.Normalize()
		err := requireID(item.ID, item.Validate())
		if err == nil && !item.CreatedAt.IsZero() {
			_, err = domain.ParseDate(item.CreatedAt.String())
		}
		if err := check(domain.KindItem, i, item.ID, err); err != nil {
			return err
		}
		d.Items[i] = item
	}
	for i, emp := range d.Employees {
		emp = emp.Normalize()
		if err := check(domain.KindEmployee, i, emp.ID, requireID(emp.ID, emp.Validate())); err != nil {
			return err
		}
		d.Employees[i] = emp
	}
	for i, opp := range d.Opportunities {
		opp = opp.Normalize()
		if err := check(domain.KindOpportunity, i, opp.ID, requireID(opp.ID, opp.Validate())); err != nil {
			return err
		}
		d.Opportunities[i] = opp
	}
	return nil
}

func requireID(id string, err error) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidID
	}
	return err
}

// Apply inserts data into every empty table of repo. Tables that already hold records are
// left untouched. It returns the number of inserted records.
func Apply(ctx context.Context, repo app.Repository, data Data) (int, error) {
	inserted := 0
	n, err := applyTable(ctx, repo.Items(), data.Items)
	inserted += n
	if err != nil {
		return inserted, err
	}
	n, err = applyTable(ctx, repo.Employees(), data.Employees)
	inserted += n
	if err != nil {
		return inserted, err
	}
	n, err = applyTable(ctx, repo.Opportunities(), data.Opportunities)
	inserted += n
	return inserted, err
}

func applyTable[T any](ctx context.Context, table app.Table[T], records []T) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	existing, err := table.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, record := range records {
		if err := table.Insert(ctx, record); err != nil {
			return i, errors.Join(fmt.Errorf("seed record %d", i), err)
		}
	}
	return len(records), nil
}
