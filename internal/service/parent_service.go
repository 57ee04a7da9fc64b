package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type parentProfileRepository interface {
	ParentProfileByUserID(ctx context.Context, userID string) (*models.ParentProfile, error)
	Children(ctx context.Context, parentProfileID string, schoolID *string) ([]models.Student, error)
	AttachStudent(ctx context.Context, parentProfileID, studentID string) error
	DetachStudent(ctx context.Context, parentProfileID, studentID string) error
}

type parentAssignmentRepository interface {
	ListForStudents(ctx context.Context, studentIDs []string, schoolID *string) ([]models.AssignmentDetail, error)
}

// ParentService exposes the read-only parent views: the parent's own
// children and those children's assignments. Parents never see the wider
// student directory.
type ParentService struct {
	profiles    parentProfileRepository
	assignments parentAssignmentRepository
	logger      *zap.Logger
}

// NewParentService constructs a ParentService.
func NewParentService(profiles parentProfileRepository, assignments parentAssignmentRepository, logger *zap.Logger) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{profiles: profiles, assignments: assignments, logger: logger}
}

func (s *ParentService) profile(ctx context.Context, claims *models.JWTClaims) (*models.ParentProfile, error) {
	if claims.Role != models.RoleParent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "parent views require the parent role")
	}
	profile, err := s.profiles.ParentProfileByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "parent profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent profile")
	}
	return profile, nil
}

// Children returns the students linked to the calling parent. A parent
// with no linked students gets an empty list, not an error.
func (s *ParentService) Children(ctx context.Context, claims *models.JWTClaims) ([]models.Student, error) {
	profile, err := s.profile(ctx, claims)
	if err != nil {
		return nil, err
	}
	students, err := s.profiles.Children(ctx, profile.ID, profile.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load children")
	}
	return students, nil
}

// AttachChild links a student to a parent account. This is a staff
// operation: parents cannot grow their own visibility set. Linking the
// same pair twice is harmless.
func (s *ParentService) AttachChild(ctx context.Context, claims *models.JWTClaims, parentUserID, studentID string) error {
	switch claims.Role {
	case models.RoleTeacher, models.RoleHeadTeacher:
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "linking children requires a teacher or head teacher role")
	}
	profile, err := s.profiles.ParentProfileByUserID(ctx, parentUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrProfileNotFound, "parent profile not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent profile")
	}
	if err := s.profiles.AttachStudent(ctx, profile.ID, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link child")
	}
	return nil
}

// DetachChild removes a parent-student link.
func (s *ParentService) DetachChild(ctx context.Context, claims *models.JWTClaims, parentUserID, studentID string) error {
	switch claims.Role {
	case models.RoleTeacher, models.RoleHeadTeacher:
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "unlinking children requires a teacher or head teacher role")
	}
	profile, err := s.profiles.ParentProfileByUserID(ctx, parentUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrProfileNotFound, "parent profile not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent profile")
	}
	if err := s.profiles.DetachStudent(ctx, profile.ID, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlink child")
	}
	return nil
}

// Assignments returns the assignments of courses the parent's children
// are enrolled in, deduplicated across siblings sharing a course.
func (s *ParentService) Assignments(ctx context.Context, claims *models.JWTClaims) ([]models.AssignmentDetail, error) {
	profile, err := s.profile(ctx, claims)
	if err != nil {
		return nil, err
	}
	students, err := s.profiles.Children(ctx, profile.ID, profile.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load children")
	}

	studentIDs := make([]string, len(students))
	for i, student := range students {
		studentIDs[i] = student.ID
	}

	assignments, err := s.assignments.ListForStudents(ctx, studentIDs, profile.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	return assignments, nil
}
