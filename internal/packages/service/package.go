package service

import (
	"context"
	"errors"

	packageserrors "photodesk/internal/packages/errors"
	"photodesk/internal/packages/repository"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/model"
	"photodesk/pkg/sanitizer"
)

type PackageService interface {
	Add(ctx context.Context, pkg *model.ServicePackage) error
	GetByID(ctx context.Context, id string) (*model.ServicePackage, error)
	GetByPhotographer(ctx context.Context, photographerID string) ([]*model.ServicePackage, error)
	GetActiveByPhotographer(ctx context.Context, photographerID string) ([]*model.ServicePackage, error)
	GetByCategory(ctx context.Context, category string) ([]*model.ServicePackage, error)
	Update(ctx context.Context, pkg *model.ServicePackage) error
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) error
	CreateDefaultPackages(ctx context.Context, photographerID string) error
}

type packageService struct {
	repo repository.PackageRepository
	cfg  *config.Config
}

func NewPackageService(repo repository.PackageRepository, cfg *config.Config) PackageService {
	return &packageService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *packageService) Add(ctx context.Context, pkg *model.ServicePackage) error {
	if pkg == nil || pkg.PhotographerID == "" {
		return apperrors.InvalidInput("Package requires a photographer ID")
	}

	pkg.Name = sanitizer.SanitizeLabel(pkg.Name)
	pkg.Description = sanitizer.SanitizeFreeText(pkg.Description)

	if err := s.repo.Create(ctx, pkg); err != nil {
		s.cfg.Log.Error("Failed to add service package", "error", err)
		return err
	}

	s.cfg.Log.Info("Service package added",
		"id", pkg.ID,
		"photographer_id", pkg.PhotographerID,
		"name", pkg.Name,
	)
	return nil
}

func (s *packageService) GetByID(ctx context.Context, id string) (*model.ServicePackage, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Package ID cannot be empty")
	}

	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, packageserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service package", id)
		}
		return nil, apperrors.Internal("Failed to retrieve service package", err)
	}
	return pkg, nil
}

func (s *packageService) GetByPhotographer(ctx context.Context, photographerID string) ([]*model.ServicePackage, error) {
	return s.repo.FindByPhotographer(ctx, photographerID)
}

func (s *packageService) GetActiveByPhotographer(ctx context.Context, photographerID string) ([]*model.ServicePackage, error) {
	all, err := s.repo.FindByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, err
	}

	active := []*model.ServicePackage{}
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

// GetByCategory returns the active packages in a category.
func (s *packageService) GetByCategory(ctx context.Context, category string) ([]*model.ServicePackage, error) {
	all, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	active := []*model.ServicePackage{}
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *packageService) Update(ctx context.Context, pkg *model.ServicePackage) error {
	if pkg == nil || pkg.ID == "" {
		return apperrors.InvalidInput("Package ID cannot be empty")
	}

	pkg.Name = sanitizer.SanitizeLabel(pkg.Name)
	pkg.Description = sanitizer.SanitizeFreeText(pkg.Description)

	if err := s.repo.Update(ctx, pkg.ID, pkg); err != nil {
		if errors.Is(err, packageserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Service package", pkg.ID)
		}
		s.cfg.Log.Error("Failed to update service package", "id", pkg.ID, "error", err)
		return err
	}

	s.cfg.Log.Info("Service package updated", "id", pkg.ID)
	return nil
}

func (s *packageService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Package ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, packageserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Service package", id)
		}
		s.cfg.Log.Error("Failed to delete service package", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Service package deleted", "id", id)
	return nil
}

func (s *packageService) ToggleActive(ctx context.Context, id string) error {
	pkg, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pkg.Active = !pkg.Active
	return s.Update(ctx, pkg)
}

// CreateDefaultPackages seeds a starter catalog for a photographer that has
// no packages yet. Photographers with an existing catalog are left alone.
func (s *packageService) CreateDefaultPackages(ctx context.Context, photographerID string) error {
	if photographerID == "" {
		return apperrors.InvalidInput("Photographer ID cannot be empty")
	}

	existing, err := s.repo.FindByPhotographer(ctx, photographerID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return apperrors.Conflict("Photographer already has service packages")
	}

	s.cfg.Log.Info("Creating default packages", "photographer_id", photographerID)

	defaults := []*model.ServicePackage{
		{
			PhotographerID: photographerID,
			Name:           "Silver Wedding Package",
			Description:    "Basic wedding coverage with essential services for couples on a budget.",
			Price:          1800.00,
			Category:       "WEDDING",
			DurationHours:  6,
			Active:         true,
		},
		{
			PhotographerID: photographerID,
			Name:           "Classic Portrait Session",
			Description:    "Studio or outdoor portrait session with edited digital images.",
			Price:          350.00,
			Category:       "PORTRAIT",
			DurationHours:  2,
			Active:         true,
		},
		{
			PhotographerID: photographerID,
			Name:           "Event Coverage",
			Description:    "Full coverage for corporate and private events.",
			Price:          900.00,
			Category:       "EVENT",
			DurationHours:  4,
			Active:         true,
		},
	}

	for _, pkg := range defaults {
		if err := s.Add(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}
