package repository

import (
	"context"
	"strings"
	"sync"

	packageserrors "photodesk/internal/packages/errors"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/model"
	"photodesk/pkg/storage"

	"github.com/google/uuid"
)

const backupSuffix = ".bak"

type PackageRepository interface {
	Create(ctx context.Context, pkg *model.ServicePackage) error
	FindByID(ctx context.Context, id string) (*model.ServicePackage, error)
	FindAll(ctx context.Context) ([]*model.ServicePackage, error)
	FindByPhotographer(ctx context.Context, photographerID string) ([]*model.ServicePackage, error)
	FindByCategory(ctx context.Context, category string) ([]*model.ServicePackage, error)
	Update(ctx context.Context, id string, pkg *model.ServicePackage) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// filePackageRepository mirrors the booking repository's persistence shape:
// full in-memory collection, full rewrite on mutation, .bak copy before the
// rewrite and best-effort restore on write failure.
type filePackageRepository struct {
	cfg     *config.Config
	store   storage.Store
	mu      sync.Mutex
	records []*model.ServicePackage
}

func NewFilePackageRepository(cfg *config.Config, store storage.Store) (PackageRepository, error) {
	r := &filePackageRepository{cfg: cfg, store: store}

	if err := store.EnsureExists(config.PackagesCollection); err != nil {
		return nil, apperrors.Unavailable("failed to initialize package storage", err)
	}

	lines, err := store.ReadAllLines(config.PackagesCollection)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load persisted packages", err)
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pkg, err := model.UnmarshalServicePackageLine(line)
		if err != nil {
			cfg.Log.Warn("Skipping malformed package record", "error", err)
			continue
		}
		r.records = append(r.records, pkg)
	}

	cfg.Log.Info("Loaded service packages from storage", "count", len(r.records))
	return r, nil
}

// flush rewrites the collection file. Callers must hold r.mu.
func (r *filePackageRepository) flush() error {
	name := config.PackagesCollection
	backup := name + backupSuffix

	if r.store.Exists(name) {
		if err := r.store.Copy(name, backup); err != nil {
			return apperrors.Unavailable("failed to back up package records", err)
		}
	}
	if err := r.store.Delete(name); err != nil {
		return apperrors.Unavailable("failed to reset package records", err)
	}
	if err := r.store.EnsureExists(name); err != nil {
		return apperrors.Unavailable("failed to recreate package records", err)
	}

	var content strings.Builder
	for _, p := range r.records {
		line, err := p.MarshalLine()
		if err != nil {
			return apperrors.Internal("failed to serialize package record", err)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	if err := r.store.WriteAll(name, content.String(), false); err != nil {
		r.cfg.Log.Error("Failed to save packages, restoring from backup", "error", err)
		if r.store.Exists(backup) {
			if restoreErr := r.store.Copy(backup, name); restoreErr != nil {
				r.cfg.Log.Error("Failed to restore packages from backup", "error", restoreErr)
			}
		}
		return apperrors.Unavailable("failed to persist packages", err)
	}

	return nil
}

func (r *filePackageRepository) Create(ctx context.Context, pkg *model.ServicePackage) error {
	if pkg == nil || pkg.PhotographerID == "" {
		return apperrors.InvalidInput("package requires a photographer ID")
	}
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, pkg)
	return r.flush()
}

func (r *filePackageRepository) FindByID(ctx context.Context, id string) (*model.ServicePackage, error) {
	if id == "" {
		return nil, packageserrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.records {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, packageserrors.ErrNotFound
}

func (r *filePackageRepository) FindAll(ctx context.Context) ([]*model.ServicePackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.ServicePackage, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *filePackageRepository) FindByPhotographer(ctx context.Context, photographerID string) ([]*model.ServicePackage, error) {
	return r.filter(func(p *model.ServicePackage) bool {
		return photographerID != "" && p.PhotographerID == photographerID
	}), nil
}

func (r *filePackageRepository) FindByCategory(ctx context.Context, category string) ([]*model.ServicePackage, error) {
	return r.filter(func(p *model.ServicePackage) bool {
		return category != "" && p.Category == category
	}), nil
}

func (r *filePackageRepository) Update(ctx context.Context, id string, pkg *model.ServicePackage) error {
	if id == "" {
		return packageserrors.ErrInvalidID
	}
	if pkg == nil {
		return apperrors.InvalidInput("package cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == id {
			pkg.ID = id
			r.records[i] = pkg
			return r.flush()
		}
	}
	return packageserrors.ErrNotFound
}

func (r *filePackageRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return packageserrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return r.flush()
		}
	}
	return packageserrors.ErrNotFound
}

func (r *filePackageRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *filePackageRepository) filter(keep func(*model.ServicePackage) bool) []*model.ServicePackage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.ServicePackage{}
	for _, p := range r.records {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
