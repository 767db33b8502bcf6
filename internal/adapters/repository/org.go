package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/pkg/metrics"
)

// MemoryOrgStore serves a fixed organization tree.
type MemoryOrgStore struct {
	divisions   []model.Division
	divIndex    map[string]int
	departments []model.Department
	deptIndex   map[string]int
}

// NewMemoryOrgStore indexes divisions. Department division ids are filled in
// from their parent; duplicate ids are rejected.
func NewMemoryOrgStore(divisions []model.Division) (*MemoryOrgStore, error) {
	s := &MemoryOrgStore{
		divisions: make([]model.Division, 0, len(divisions)),
		divIndex:  make(map[string]int, len(divisions)),
		deptIndex: make(map[string]int),
	}
	for _, div := range divisions {
		if _, ok := s.divIndex[div.ID]; ok {
			return nil, fmt.Errorf("division %q: %w", div.ID, ErrDuplicateID)
		}
		depts := make([]model.Department, 0, len(div.Departments))
		for _, d := range div.Departments {
			if _, ok := s.deptIndex[d.ID]; ok {
				return nil, fmt.Errorf("department %q: %w", d.ID, ErrDuplicateID)
			}
			d.DivisionID = div.ID
			s.deptIndex[d.ID] = len(s.departments)
			s.departments = append(s.departments, d)
			depts = append(depts, d)
		}
		div.Departments = depts
		s.divIndex[div.ID] = len(s.divisions)
		s.divisions = append(s.divisions, div)
	}
	metrics.UpdateRepositoryRecords(storeOrg, len(s.departments))
	return s, nil
}

func observeQuery(store string, start time.Time) {
	metrics.RecordRepositoryQueryLatency(store, float64(time.Since(start).Microseconds())/1000)
}

// Divisions returns all divisions in load order.
func (s *MemoryOrgStore) Divisions(_ context.Context) ([]model.Division, error) {
	defer observeQuery(storeOrg, time.Now())
	return append([]model.Division(nil), s.divisions...), nil
}

// Division returns one division.
func (s *MemoryOrgStore) Division(_ context.Context, id string) (model.Division, error) {
	defer observeQuery(storeOrg, time.Now())
	i, ok := s.divIndex[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Division{}, fmt.Errorf("division %q: %w", id, ErrNotFound)
	}
	return s.divisions[i], nil
}

// Departments returns all departments in load order.
func (s *MemoryOrgStore) Departments(_ context.Context) ([]model.Department, error) {
	defer observeQuery(storeOrg, time.Now())
	return append([]model.Department(nil), s.departments...), nil
}

// Department returns one department.
func (s *MemoryOrgStore) Department(_ context.Context, id string) (model.Department, error) {
	defer observeQuery(storeOrg, time.Now())
	i, ok := s.deptIndex[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Department{}, fmt.Errorf("department %q: %w", id, ErrNotFound)
	}
	return s.departments[i], nil
}
