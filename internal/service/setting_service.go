package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultSettingCategory = "general"

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,99}$`)

// decimalSettings must hold non-negative decimals.
var decimalSettings = map[string]bool{
	model.SettingTaxRate:               true,
	model.SettingShippingFlatRate:      true,
	model.SettingFreeShippingThreshold: true,
}

type settingService struct {
	settings repository.SettingRepository
	logger   zerolog.Logger
}

// NewSettingService creates a new setting service.
func NewSettingService(settings repository.SettingRepository, logger zerolog.Logger) SettingService {
	return &settingService{
		settings: settings,
		logger:   logger.With().Str("service", "setting").Logger(),
	}
}

// List returns public settings, or every setting for admins.
func (s *settingService) List(ctx context.Context, viewer model.Viewer) ([]model.Setting, error) {
	settings, err := s.settings.List(ctx, !viewer.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	if settings == nil {
		settings = []model.Setting{}
	}
	return settings, nil
}

func (s *settingService) Upsert(ctx context.Context, key string, in *model.SettingInput) (*model.Setting, error) {
	key = strings.TrimSpace(key)
	if !settingKeyPattern.MatchString(key) {
		return nil, model.NewValidationError(model.FieldError{
			Field: "key",
			Msg:   "must be 1-100 lowercase letters, digits, dots, dashes or underscores",
		})
	}

	value := strings.TrimSpace(in.Value)
	if err := validateSettingValue(key, value); err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = defaultSettingCategory
	}

	now := time.Now().UTC()
	setting := &model.Setting{
		ID:          uuid.New(),
		Key:         key,
		Value:       value,
		Category:    category,
		IsPublic:    in.IsPublic,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	stored, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	if stored == nil {
		return nil, model.ErrNotFound
	}

	s.logger.Info().Str("key", key).Msg("setting saved")
	return stored, nil
}

func validateSettingValue(key, value string) error {
	switch {
	case decimalSettings[key]:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			return model.NewValidationError(model.FieldError{Field: "value", Msg: "must be a non-negative decimal"})
		}
	case key == model.SettingCurrency:
		if len(value) != 3 {
			return model.NewValidationError(model.FieldError{Field: "value", Msg: "must be a 3-letter currency code"})
		}
	}
	return nil
}

func (s *settingService) Delete(ctx context.Context, key string) error {
	if err := s.settings.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info().Str("key", key).Msg("setting deleted")
	return nil
}

// PricingRules reads the checkout settings. Missing or malformed values fall
// back to the defaults so a bad edit never blocks checkout.
func (s *settingService) PricingRules(ctx context.Context) (model.PricingRules, error) {
	rules := model.DefaultPricingRules()

	values, err := s.settings.Values(ctx, []string{
		model.SettingTaxRate,
		model.SettingShippingFlatRate,
		model.SettingFreeShippingThreshold,
		model.SettingCurrency,
	})
	if err != nil {
		return rules, fmt.Errorf("failed to read pricing settings: %w", err)
	}

	rules.TaxRate = s.decimalValue(values, model.SettingTaxRate, rules.TaxRate)
	rules.ShippingFlatRate = s.decimalValue(values, model.SettingShippingFlatRate, rules.ShippingFlatRate)
	rules.FreeShippingThreshold = s.decimalValue(values, model.SettingFreeShippingThreshold, rules.FreeShippingThreshold)
	if c := strings.ToUpper(strings.TrimSpace(values[model.SettingCurrency])); len(c) == 3 {
		rules.Currency = c
	}

	return rules, nil
}

func (s *settingService) decimalValue(values map[string]string, key string, fallback decimal.Decimal) decimal.Decimal {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		s.logger.Warn().Str("key", key).Str("value", raw).Msg("ignoring malformed pricing setting")
		return fallback
	}
	return d
}
