package service

import (
	"context"
	"testing"

	"photodesk/internal/packages/repository"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/logger"
	"photodesk/pkg/model"
	"photodesk/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPackageService(t *testing.T) PackageService {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{Log: logger.Discard()}
	repo, err := repository.NewFilePackageRepository(cfg, store)
	require.NoError(t, err)

	return NewPackageService(repo, cfg)
}

func TestAddAndGet(t *testing.T) {
	svc := newTestPackageService(t)
	ctx := context.Background()

	pkg := &model.ServicePackage{
		PhotographerID: "p1",
		Name:           "  Golden  Hour Session ",
		Category:       "PORTRAIT",
		Price:          250,
		DurationHours:  2,
		Active:         true,
	}
	require.NoError(t, svc.Add(ctx, pkg))
	assert.NotEmpty(t, pkg.ID)
	assert.Equal(t, "Golden Hour Session", pkg.Name)

	got, err := svc.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, pkg.Name, got.Name)
}

func TestAdd_RequiresPhotographer(t *testing.T) {
	svc := newTestPackageService(t)

	err := svc.Add(context.Background(), &model.ServicePackage{Name: "No Owner"})
	assert.Error(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestPackageService(t)

	_, err := svc.GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestCreateDefaultPackages(t *testing.T) {
	svc := newTestPackageService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateDefaultPackages(ctx, "p1"))

	pkgs, err := svc.GetByPhotographer(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, pkgs, 3)

	categories := map[string]bool{}
	for _, p := range pkgs {
		assert.True(t, p.Active)
		categories[p.Category] = true
	}
	assert.True(t, categories["WEDDING"])
	assert.True(t, categories["PORTRAIT"])
	assert.True(t, categories["EVENT"])

	// A second seeding attempt must not duplicate the catalog.
	err = svc.CreateDefaultPackages(ctx, "p1")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.GetCode(err))

	pkgs, err = svc.GetByPhotographer(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, pkgs, 3)
}

func TestToggleActiveAndActiveFilter(t *testing.T) {
	svc := newTestPackageService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateDefaultPackages(ctx, "p1"))

	pkgs, err := svc.GetByPhotographer(ctx, "p1")
	require.NoError(t, err)
	require.NotEmpty(t, pkgs)

	target := pkgs[0]
	require.NoError(t, svc.ToggleActive(ctx, target.ID))

	active, err := svc.GetActiveByPhotographer(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, active, 2)
	for _, p := range active {
		assert.NotEqual(t, target.ID, p.ID)
	}

	require.NoError(t, svc.ToggleActive(ctx, target.ID))
	active, err = svc.GetActiveByPhotographer(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestPackageService(t)
	ctx := context.Background()

	pkg := &model.ServicePackage{
		PhotographerID: "p1",
		Name:           "Event Coverage",
		Category:       "EVENT",
		Price:          900,
		DurationHours:  4,
		Active:         true,
	}
	require.NoError(t, svc.Add(ctx, pkg))

	pkg.Price = 950
	require.NoError(t, svc.Update(ctx, pkg))

	got, err := svc.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 950.0, got.Price)

	require.NoError(t, svc.Delete(ctx, pkg.ID))
	_, err = svc.GetByID(ctx, pkg.ID)
	assert.Error(t, err)

	err = svc.Delete(ctx, pkg.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestGetByCategory_OnlyActive(t *testing.T) {
	svc := newTestPackageService(t)
	ctx := context.Background()

	active := &model.ServicePackage{
		PhotographerID: "p1",
		Name:           "Wedding Gold",
		Category:       "WEDDING",
		DurationHours:  8,
		Active:         true,
	}
	inactive := &model.ServicePackage{
		PhotographerID: "p2",
		Name:           "Wedding Legacy",
		Category:       "WEDDING",
		DurationHours:  8,
		Active:         false,
	}
	require.NoError(t, svc.Add(ctx, active))
	require.NoError(t, svc.Add(ctx, inactive))

	got, err := svc.GetByCategory(ctx, "WEDDING")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)
}
