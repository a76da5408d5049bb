package services

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// Settings is everything shown on the settings page. Sections that failed to load are nil.
type Settings struct {
	Profile       *model.Profile
	Business      *model.BusinessSettings
	Notifications *model.NotificationSettings
	APIKey        string
}

// LoadSettings fetches all settings sections in parallel. A failure in one section does not
// stop the others; one notification covers every failed section.
func LoadSettings(ctx context.Context, client SettingsClient, n Notifier, logger *zap.Logger) (*Settings, error) {
	var (
		s    Settings
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
	}

	g.Go(func() error {
		profile, err := client.GetProfile(ctx)
		s.Profile = profile
		record(err)
		return nil
	})
	g.Go(func() error {
		business, err := client.GetBusinessSettings(ctx)
		s.Business = business
		record(err)
		return nil
	})
	g.Go(func() error {
		notifications, err := client.GetNotificationSettings(ctx)
		s.Notifications = notifications
		record(err)
		return nil
	})
	g.Go(func() error {
		key, err := client.GetAPIKey(ctx)
		s.APIKey = key
		record(err)
		return nil
	})
	_ = g.Wait()

	if errs != nil {
		logger.Warn("Some settings failed to load", zap.Error(errs))
		return &s, fail(n, "Failed to load settings", multierr.Errors(errs)[0])
	}
	return &s, nil
}

// UpdateProfile validates and saves a profile change
func UpdateProfile(ctx context.Context, client SettingsClient, n Notifier, logger *zap.Logger, update model.ProfileUpdate) (*model.Profile, error) {
	if err := model.Validate(update); err != nil {
		return nil, err
	}

	logger.Info("Updating profile")
	profile, err := client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, fail(n, "Failed to update profile", err)
	}

	n.Notify(LevelSuccess, "Profile updated")
	return profile, nil
}

// UpdateBusiness validates and saves a business settings change
func UpdateBusiness(ctx context.Context, client SettingsClient, n Notifier, logger *zap.Logger, update model.BusinessUpdate) (*model.BusinessSettings, error) {
	if err := model.Validate(update); err != nil {
		return nil, err
	}

	logger.Info("Updating business settings")
	settings, err := client.UpdateBusinessSettings(ctx, update)
	if err != nil {
		return nil, fail(n, "Failed to update business settings", err)
	}

	n.Notify(LevelSuccess, "Business settings updated")
	return settings, nil
}

// UpdateNotifications saves a notification preferences change
func UpdateNotifications(ctx context.Context, client SettingsClient, n Notifier, logger *zap.Logger, update model.NotificationUpdate) (*model.NotificationSettings, error) {
	logger.Info("Updating notification settings")
	settings, err := client.UpdateNotificationSettings(ctx, update)
	if err != nil {
		return nil, fail(n, "Failed to update notification settings", err)
	}

	n.Notify(LevelSuccess, "Notification settings updated")
	return settings, nil
}

// RegenerateAPIKey replaces the account's API key
func RegenerateAPIKey(ctx context.Context, client SettingsClient, n Notifier, logger *zap.Logger) (string, error) {
	logger.Info("Regenerating API key")
	key, err := client.RegenerateAPIKey(ctx)
	if err != nil {
		return "", fail(n, "Failed to regenerate API key", err)
	}

	n.Notify(LevelSuccess, "API Key regenerated")
	return key, nil
}
