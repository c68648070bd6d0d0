// Package machines implements equipment management: machine CRUD, status
// tracking and the append-only maintenance history.
package machines

import (
	"context"
	"time"

	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
)

// Machine states.
const (
	StatusOperational = "operational"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

var validStatuses = map[string]bool{
	StatusOperational: true,
	StatusMaintenance: true,
	StatusRetired:     true,
}

type Service struct {
	store *docstore.Store
}

func NewService(store *docstore.Store) *Service {
	return &Service{store: store}
}

type CreateRequest struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (docstore.Record, error) {
	if req.Name == "" {
		return nil, common.ErrorValidation
	}
	if req.Status == "" {
		req.Status = StatusOperational
	}
	if !validStatuses[req.Status] {
		return nil, common.ErrorValidation
	}

	return s.store.Create(ctx, docstore.CollectionMachines, docstore.Record{
		"name":               req.Name,
		"status":             req.Status,
		"location":           req.Location,
		"maintenanceHistory": []any{},
	})
}

func (s *Service) Get(ctx context.Context, id string) (docstore.Record, error) {
	return s.store.FindByID(ctx, docstore.CollectionMachines, id)
}

func (s *Service) List(ctx context.Context, page, limit int, status string) (*docstore.PageResult, error) {
	var filter docstore.Filter
	if status != "" {
		filter = append(filter, docstore.Equals{Field: "status", Value: status})
	}
	return s.store.Paginate(ctx, docstore.CollectionMachines, page, limit, filter)
}

type UpdateRequest struct {
	Name     *string `json:"name"`
	Status   *string `json:"status"`
	Location *string `json:"location"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (docstore.Record, error) {
	fields := docstore.Record{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, common.ErrorValidation
		}
		fields["name"] = *req.Name
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, common.ErrorValidation
		}
		fields["status"] = *req.Status
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}

	return s.store.Update(ctx, docstore.CollectionMachines, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, docstore.CollectionMachines, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

// MaintenanceEntry is one line of a machine's service log.
type MaintenanceEntry struct {
	Description string `json:"description"`
	PerformedBy string `json:"performedBy"`
	Date        string `json:"date"`
}

// AddMaintenance appends an entry to the machine's maintenance history.
// The store merges nested structures wholesale, so the whole history array
// is read, extended and written back. The store serializes each of the two
// calls but not the pair: two concurrent appends to the same machine can
// lose one entry.
func (s *Service) AddMaintenance(ctx context.Context, id string, entry MaintenanceEntry) (docstore.Record, error) {
	if entry.Description == "" {
		return nil, common.ErrorValidation
	}
	if entry.Date == "" {
		entry.Date = time.Now().UTC().Format(docstore.TimeLayout)
	}

	machine, err := s.store.FindByID(ctx, docstore.CollectionMachines, id)
	if err != nil {
		return nil, err
	}

	history, _ := machine["maintenanceHistory"].([]any)
	history = append(history, map[string]any{
		"description": entry.Description,
		"performedBy": entry.PerformedBy,
		"date":        entry.Date,
	})

	return s.store.Update(ctx, docstore.CollectionMachines, id, docstore.Record{
		"maintenanceHistory": history,
	})
}

// Summary counts machines per status for the dashboard.
func (s *Service) Summary(ctx context.Context) (map[string]int, error) {
	recs, err := s.store.FindAll(ctx, docstore.CollectionMachines, nil)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		StatusOperational: 0,
		StatusMaintenance: 0,
		StatusRetired:     0,
	}
	for _, r := range recs {
		counts[r.String("status")]++
	}
	counts["total"] = len(recs)
	return counts, nil
}
