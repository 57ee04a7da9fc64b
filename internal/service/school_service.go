package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type schoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	List(ctx context.Context) ([]models.School, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	Delete(ctx context.Context, id string) error
}

// SchoolService manages the tenant registry. Only the proprietor role
// reaches it through the router.
type SchoolService struct {
	schools   schoolRepository
	audit     auditWriter
	dashboard *DashboardService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs a SchoolService.
func NewSchoolService(schools schoolRepository, audit auditWriter, dashboard *DashboardService, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{schools: schools, audit: audit, dashboard: dashboard, validator: validate, logger: logger}
}

// Create registers a new school.
func (s *SchoolService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}
	school := &models.School{Name: req.Name, Proprietor: req.Proprietor}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}
	s.logger.Info("school created", zap.String("school_id", school.ID), zap.String("by", claims.UserID))
	return school, nil
}

// List returns all registered schools.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, nil
}

// Get fetches a single school.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	return school, nil
}

// Delete removes a school and, through the cascade, every row scoped to
// it. The action is audited because it is the most destructive operation
// in the system.
func (s *SchoolService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.schools.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionSchoolDelete,
		Resource:   "school",
		ResourceID: &id,
	}); err != nil {
		s.logger.Warn("failed to record school deletion audit log", zap.Error(err))
	}

	s.dashboard.InvalidateSchool(ctx, &id)
	return nil
}
