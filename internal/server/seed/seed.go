// Package seed populates a freshly bootstrapped store with default data so
// the system is usable (has a login-capable admin) on first run, without a
// separate provisioning step.
package seed

import (
	"context"

	"github.com/dkozel/shopfloor/internal/auth"
	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
)

// DefaultAdminEmail is the login of the seeded administrative account. Its
// initial password is "admin123" and must be rotated after first login.
const DefaultAdminEmail = "admin@shopfloor.local"

const defaultAdminPassword = "admin123"

// Bootstrap returns a SeedFunc for docstore.Open. Each collection is only
// populated when empty, so re-running against an existing document is a
// no-op. cost is the bcrypt work factor for the seeded credentials.
func Bootstrap(cost int) docstore.SeedFunc {
	return func(ctx context.Context, s *docstore.Store) error {
		if err := seedUsers(ctx, s, cost); err != nil {
			return err
		}
		if err := seedMachines(ctx, s); err != nil {
			return err
		}
		return seedTasks(ctx, s)
	}
}

func seedUsers(ctx context.Context, s *docstore.Store, cost int) error {
	existing, err := s.FindAll(ctx, docstore.CollectionUsers, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []struct {
		name, email, password, role string
	}{
		{"Administrator", DefaultAdminEmail, defaultAdminPassword, common.RoleAdmin},
		{"Sasha Petrov", "sasha@shopfloor.local", "changeme1", common.RoleSubAdmin},
		{"Mika Tanaka", "mika@shopfloor.local", "changeme1", common.RoleManager},
		{"Lee Ortiz", "lee@shopfloor.local", "changeme1", common.RoleEmployee},
	}

	for _, u := range defaults {
		hash, err := auth.HashPassword(u.password, cost)
		if err != nil {
			return err
		}
		_, err = s.Create(ctx, docstore.CollectionUsers, docstore.Record{
			"name":     u.name,
			"email":    u.email,
			"password": hash,
			"role":     u.role,
			"status":   "active",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedMachines(ctx context.Context, s *docstore.Store) error {
	existing, err := s.FindAll(ctx, docstore.CollectionMachines, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	machines := []docstore.Record{
		{"name": "CNC Mill A", "status": "operational", "location": "Bay 1", "maintenanceHistory": []any{}},
		{"name": "Lathe 3000", "status": "operational", "location": "Bay 2", "maintenanceHistory": []any{}},
		{"name": "Press Brake", "status": "maintenance", "location": "Bay 2", "maintenanceHistory": []any{}},
	}
	for _, m := range machines {
		if _, err := s.Create(ctx, docstore.CollectionMachines, m); err != nil {
			return err
		}
	}
	return nil
}

func seedTasks(ctx context.Context, s *docstore.Store) error {
	existing, err := s.FindAll(ctx, docstore.CollectionTasks, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	// References point at whatever employee/machine exists; seeding order
	// guarantees both on a completely fresh store. Dangling references are
	// tolerated by readers anyway.
	assignee := firstID(ctx, s, docstore.CollectionUsers, "role", common.RoleEmployee)
	machine := firstAnyID(ctx, s, docstore.CollectionMachines)

	tasks := []docstore.Record{
		{"title": "Calibrate spindle", "description": "Quarterly calibration run", "status": "pending", "progress": 0, "assignedTo": assignee, "machine": machine},
		{"title": "Replace coolant filter", "description": "Filter pressure above limit", "status": "in-progress", "progress": 40, "assignedTo": assignee, "machine": machine},
		{"title": "Safety inspection", "description": "Monthly walkaround", "status": "pending", "progress": 0, "assignedTo": assignee, "machine": ""},
	}
	for _, task := range tasks {
		if _, err := s.Create(ctx, docstore.CollectionTasks, task); err != nil {
			return err
		}
	}
	return nil
}

func firstID(ctx context.Context, s *docstore.Store, collection, field string, value any) string {
	rec, err := s.FindByField(ctx, collection, field, value)
	if err != nil {
		return ""
	}
	return rec.ID()
}

func firstAnyID(ctx context.Context, s *docstore.Store, collection string) string {
	recs, err := s.FindAll(ctx, collection, nil)
	if err != nil || len(recs) == 0 {
		return ""
	}
	return recs[0].ID()
}
