package parkingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// staffMember decodes a staff record whose identifier arrives as either id or _id
type staffMember model.Staff

func (s *staffMember) UnmarshalJSON(data []byte) error {
	var w struct {
		model.Staff
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = w.MongoID
	}
	*s = staffMember(w.Staff)
	return nil
}

// GetStaff lists staff accounts
func (c *Client) GetStaff(ctx context.Context) ([]model.Staff, error) {
	wire, err := getList[staffMember](ctx, c, "/staff", "staff")
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}

	staff := make([]model.Staff, len(wire))
	for i, s := range wire {
		staff[i] = model.Staff(s)
	}
	return staff, nil
}

// CreateStaff creates a staff account
func (c *Client) CreateStaff(ctx context.Context, form model.StaffForm) (*model.Staff, error) {
	var created staffMember
	if err := c.request(ctx, http.MethodPost, "/staff/create", form, &created); err != nil {
		return nil, err
	}

	staff := model.Staff(created)
	return &staff, nil
}

// UpdateStaffRole changes a staff member's role
func (c *Client) UpdateStaffRole(ctx context.Context, staffID string, role model.Role) error {
	body := map[string]any{
		"staffId": staffID,
		"role":    role,
	}
	return c.request(ctx, http.MethodPost, "/staff/update-role", body, nil)
}

// UpdateStaffPermissions replaces a staff member's permission list
func (c *Client) UpdateStaffPermissions(ctx context.Context, staffID string, permissions []string) error {
	if permissions == nil {
		permissions = []string{}
	}
	body := map[string]any{
		"staffId":     staffID,
		"permissions": permissions,
	}
	return c.request(ctx, http.MethodPost, "/staff/update-permissions", body, nil)
}
