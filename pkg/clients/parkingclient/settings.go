package parkingclient

import (
	"context"
	"net/http"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// GetProfile returns the signed-in user's profile
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.request(ctx, http.MethodGet, "/settings/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile change
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.Profile, error) {
	var profile model.Profile
	if err := c.request(ctx, http.MethodPut, "/settings/profile", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetBusinessSettings returns the business details
func (c *Client) GetBusinessSettings(ctx context.Context) (*model.BusinessSettings, error) {
	var settings model.BusinessSettings
	if err := c.request(ctx, http.MethodGet, "/settings/business", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateBusinessSettings applies a partial business settings change
func (c *Client) UpdateBusinessSettings(ctx context.Context, update model.BusinessUpdate) (*model.BusinessSettings, error) {
	var settings model.BusinessSettings
	if err := c.request(ctx, http.MethodPost, "/settings/business", update, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetNotificationSettings returns the notification preferences
func (c *Client) GetNotificationSettings(ctx context.Context) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	if err := c.request(ctx, http.MethodGet, "/settings/notifications", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateNotificationSettings applies a partial notification settings change
func (c *Client) UpdateNotificationSettings(ctx context.Context, update model.NotificationUpdate) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	if err := c.request(ctx, http.MethodPost, "/settings/notifications", update, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

type apiKeyResponse struct {
	APIKey string `json:"apiKey"`
}

// GetAPIKey returns the account's integration API key
func (c *Client) GetAPIKey(ctx context.Context) (string, error) {
	var resp apiKeyResponse
	if err := c.request(ctx, http.MethodGet, "/settings/api-key", nil, &resp); err != nil {
		return "", err
	}
	return resp.APIKey, nil
}

// RegenerateAPIKey replaces the account's API key and returns the new one
func (c *Client) RegenerateAPIKey(ctx context.Context) (string, error) {
	var resp apiKeyResponse
	if err := c.request(ctx, http.MethodPost, "/settings/api-key/regenerate", nil, &resp); err != nil {
		return "", err
	}
	return resp.APIKey, nil
}
