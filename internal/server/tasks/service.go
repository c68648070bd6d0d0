// Package tasks implements work-order management on top of the document
// store: creation with request defaults, assignment, status/progress
// updates and the status summary used by the dashboard.
package tasks

import (
	"context"
	"errors"

	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
)

// Task states. Stored verbatim in the record's "status" field.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

type Service struct {
	store *docstore.Store
}

func NewService(store *docstore.Store) *Service {
	return &Service{store: store}
}

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Machine     string `json:"machine"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	DueDate     string `json:"dueDate"`
}

// Create stores a new task. Request-level defaults (status pending,
// progress 0) are applied here; the store itself invents no fields.
func (s *Service) Create(ctx context.Context, req CreateRequest) (docstore.Record, error) {
	if req.Title == "" {
		return nil, common.ErrorValidation
	}
	if req.Status == "" {
		req.Status = StatusPending
	}
	if !validStatuses[req.Status] {
		return nil, common.ErrorValidation
	}
	if req.Progress < 0 || req.Progress > 100 {
		return nil, common.ErrorValidation
	}

	return s.store.Create(ctx, docstore.CollectionTasks, docstore.Record{
		"title":       req.Title,
		"description": req.Description,
		"assignedTo":  req.AssignedTo,
		"machine":     req.Machine,
		"status":      req.Status,
		"progress":    req.Progress,
		"dueDate":     req.DueDate,
	})
}

func (s *Service) Get(ctx context.Context, id string) (docstore.Record, error) {
	return s.store.FindByID(ctx, docstore.CollectionTasks, id)
}

// List returns one page of tasks, optionally narrowed by status and
// assignee.
func (s *Service) List(ctx context.Context, page, limit int, status, assignedTo string) (*docstore.PageResult, error) {
	var filter docstore.Filter
	if status != "" {
		filter = append(filter, docstore.Equals{Field: "status", Value: status})
	}
	if assignedTo != "" {
		filter = append(filter, docstore.Equals{Field: "assignedTo", Value: assignedTo})
	}
	return s.store.Paginate(ctx, docstore.CollectionTasks, page, limit, filter)
}

// UpdateRequest lists the task fields that may change after creation.
// Pointers distinguish "not supplied" from zero values, matching the
// store's shallow-merge contract.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Machine     *string `json:"machine"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	DueDate     *string `json:"dueDate"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (docstore.Record, error) {
	fields := docstore.Record{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, common.ErrorValidation
		}
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.AssignedTo != nil {
		fields["assignedTo"] = *req.AssignedTo
	}
	if req.Machine != nil {
		fields["machine"] = *req.Machine
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, common.ErrorValidation
		}
		fields["status"] = *req.Status
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, common.ErrorValidation
		}
		fields["progress"] = *req.Progress
	}
	if req.DueDate != nil {
		fields["dueDate"] = *req.DueDate
	}

	return s.store.Update(ctx, docstore.CollectionTasks, id, fields)
}

// Assign points the task at a user after checking the user actually
// exists. Passing an empty id clears the assignment.
func (s *Service) Assign(ctx context.Context, taskID, userID string) (docstore.Record, error) {
	if userID != "" {
		if _, err := s.store.FindByID(ctx, docstore.CollectionUsers, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorValidation
			}
			return nil, err
		}
	}
	return s.store.Update(ctx, docstore.CollectionTasks, taskID, docstore.Record{
		"assignedTo": userID,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, docstore.CollectionTasks, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

// Summary counts tasks per status. The zero-valued statuses are included
// so dashboard widgets render a stable set of buckets.
func (s *Service) Summary(ctx context.Context) (map[string]int, error) {
	recs, err := s.store.FindAll(ctx, docstore.CollectionTasks, nil)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		StatusPending:    0,
		StatusInProgress: 0,
		StatusCompleted:  0,
		StatusCancelled:  0,
	}
	for _, r := range recs {
		counts[r.String("status")]++
	}
	counts["total"] = len(recs)
	return counts, nil
}
