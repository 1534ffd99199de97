package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, cfg *Settings) error {
	cfg.ClinicName = strings.TrimSpace(cfg.ClinicName)
	if cfg.ClinicName == "" {
		return fmt.Errorf("clinic_name is required")
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	if len(cfg.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code")
	}
	if cfg.DefaultTaxRate.IsNegative() || cfg.DefaultTaxRate.GreaterThan(hundred) {
		return fmt.Errorf("default_tax_rate must be between 0 and 100")
	}
	if cfg.DefaultCoverageRate.IsNegative() || cfg.DefaultCoverageRate.GreaterThan(hundred) {
		return fmt.Errorf("default_coverage_rate must be between 0 and 100")
	}
	return s.repo.Update(ctx, cfg)
}
