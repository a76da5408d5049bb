package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// StaffList is the staff page's local copy of the staff accounts
type StaffList struct {
	mu    sync.Mutex
	staff []model.Staff
}

// Staff returns a copy of the staff shown
func (l *StaffList) Staff() []model.Staff {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Staff(nil), l.staff...)
}

// Find returns the staff member with id
func (l *StaffList) Find(id string) (model.Staff, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.staff[i], true
	}
	return model.Staff{}, false
}

func (l *StaffList) index(id string) int {
	return slices.IndexFunc(l.staff, func(s model.Staff) bool { return s.ID == id })
}

func (l *StaffList) replace(staff []model.Staff) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.staff = staff
}

func (l *StaffList) add(s model.Staff) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.staff = append(l.staff, s)
}

// apply mutates one member and returns the previous value
func (l *StaffList) apply(id string, change func(*model.Staff)) (model.Staff, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return model.Staff{}, false
	}
	prev := l.staff[i]
	prev.Permissions = slices.Clone(prev.Permissions)
	change(&l.staff[i])
	return prev, true
}

func (l *StaffList) put(s model.Staff) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(s.ID); i >= 0 {
		l.staff[i] = s
	}
}

func (l *StaffList) remove(id string) (model.Staff, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return model.Staff{}, -1, false
	}
	removed := l.staff[i]
	l.staff = slices.Delete(l.staff, i, i+1)
	return removed, i, true
}

func (l *StaffList) restore(s model.Staff, at int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.staff = slices.Insert(l.staff, min(at, len(l.staff)), s)
}

// LoadStaff fetches the staff accounts into list
func LoadStaff(ctx context.Context, client StaffClient, n Notifier, logger *zap.Logger, list *StaffList) error {
	staff, err := client.GetStaff(ctx)
	if err != nil {
		list.replace([]model.Staff{})
		return fail(n, "Failed to load staff members", err)
	}

	list.replace(staff)
	logger.Debug("Staff loaded", zap.Int("count", len(staff)))
	return nil
}

// AddStaff validates the form and creates the account. Nothing is sent when validation fails.
func AddStaff(ctx context.Context, client StaffClient, n Notifier, logger *zap.Logger, list *StaffList, form model.StaffForm) (*model.Staff, error) {
	if err := model.Validate(form); err != nil {
		return nil, err
	}

	logger.Info("Creating staff member", zap.String("username", form.Username), zap.String("role", string(form.Role)))

	created, err := client.CreateStaff(ctx, form)
	if err != nil {
		return nil, fail(n, "Failed to add staff member", err)
	}

	if created.ID != "" {
		list.add(*created)
	}
	n.Notify(LevelSuccess, "Staff member added successfully")
	return created, nil
}

// SetStaffRole changes a member's role, reverting the list on failure
func SetStaffRole(ctx context.Context, client StaffClient, n Notifier, logger *zap.Logger, list *StaffList, id string, role model.Role) error {
	if err := model.Validate(model.RoleForm{StaffID: id, Role: role}); err != nil {
		return err
	}

	prev, ok := list.apply(id, func(s *model.Staff) { s.Role = role })
	if !ok {
		return fmt.Errorf("staff member %s not found", id)
	}

	logger.Info("Updating staff role", zap.String("staff_id", id), zap.String("role", string(role)))

	if err := client.UpdateStaffRole(ctx, id, role); err != nil {
		list.put(prev)
		return fail(n, "Failed to update role", err)
	}

	n.Notify(LevelSuccess, fmt.Sprintf("Role updated to %s", role))
	return nil
}

// SetStaffPermissions replaces a member's permissions, reverting the list on failure
func SetStaffPermissions(ctx context.Context, client StaffClient, n Notifier, logger *zap.Logger, list *StaffList, id string, permissions []string) error {
	prev, ok := list.apply(id, func(s *model.Staff) { s.Permissions = slices.Clone(permissions) })
	if !ok {
		return fmt.Errorf("staff member %s not found", id)
	}

	logger.Info("Updating staff permissions", zap.String("staff_id", id), zap.Strings("permissions", permissions))

	if err := client.UpdateStaffPermissions(ctx, id, permissions); err != nil {
		list.put(prev)
		return fail(n, "Failed to update permissions", err)
	}

	n.Notify(LevelSuccess, "Permissions updated")
	return nil
}

// RemoveStaff deletes a member's account, restoring the list on failure
func RemoveStaff(ctx context.Context, client StaffClient, n Notifier, logger *zap.Logger, list *StaffList, id string) error {
	removed, at, ok := list.remove(id)
	if !ok {
		return fmt.Errorf("staff member %s not found", id)
	}

	logger.Info("Removing staff member", zap.String("staff_id", id))

	if err := client.DeleteUser(ctx, id); err != nil {
		list.restore(removed, at)
		return fail(n, "Failed to remove staff member", err)
	}

	n.Notify(LevelSuccess, "Staff member removed")
	return nil
}
