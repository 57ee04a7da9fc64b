package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type mockSchoolRepo struct {
	schools   map[string]*models.School
	deleteErr error
	deleted   []string
}

func newMockSchoolRepo() *mockSchoolRepo {
	return &mockSchoolRepo{schools: map[string]*models.School{}}
}

func (m *mockSchoolRepo) Create(ctx context.Context, school *models.School) error {
	school.ID = "s-new"
	m.schools[school.ID] = school
	return nil
}

func (m *mockSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	var all []models.School
	for _, school := range m.schools {
		all = append(all, *school)
	}
	return all, nil
}

func (m *mockSchoolRepo) FindByID(ctx context.Context, id string) (*models.School, error) {
	if school, ok := m.schools[id]; ok {
		return school, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSchoolRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func proprietorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "pr1", Username: "owner", Role: models.RoleProprietor, FullName: "Olu Banks"}
}

func newSchoolService(repo *mockSchoolRepo, audit *mockAuditWriter) *SchoolService {
	dashboard := newDashboardService(&mockPlanRepo{}, &mockProfileRepo{}, &mockAssignmentRepo{})
	return NewSchoolService(repo, audit, dashboard, nil, zap.NewNop())
}

func TestCreateSchool(t *testing.T) {
	repo := newMockSchoolRepo()
	svc := newSchoolService(repo, &mockAuditWriter{})

	school, err := svc.Create(context.Background(), proprietorClaims(), models.CreateSchoolRequest{
		Name:       "Sunrise Academy",
		Proprietor: "Olu Banks",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, school.ID)
	assert.Equal(t, "Sunrise Academy", school.Name)
}

func TestCreateSchoolValidatesPayload(t *testing.T) {
	svc := newSchoolService(newMockSchoolRepo(), &mockAuditWriter{})

	_, err := svc.Create(context.Background(), proprietorClaims(), models.CreateSchoolRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGetSchoolMissing(t *testing.T) {
	svc := newSchoolService(newMockSchoolRepo(), &mockAuditWriter{})

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteSchoolAudits(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.schools["s1"] = &models.School{ID: "s1", Name: "Sunrise Academy"}
	audit := &mockAuditWriter{}
	svc := newSchoolService(repo, audit)

	err := svc.Delete(context.Background(), proprietorClaims(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, repo.deleted)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSchoolDelete, audit.logs[0].Action)
}

func TestDeleteSchoolMissing(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.deleteErr = sql.ErrNoRows
	svc := newSchoolService(repo, &mockAuditWriter{})

	err := svc.Delete(context.Background(), proprietorClaims(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
