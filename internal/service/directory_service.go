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

type studentRepository interface {
	List(ctx context.Context, schoolID *string, search string) ([]models.Student, error)
	FindByID(ctx context.Context, id string, schoolID *string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student, schoolID *string) error
	Delete(ctx context.Context, id string, schoolID *string) error
	EnrollCourse(ctx context.Context, studentID, courseID string) error
	JoinClub(ctx context.Context, studentID, clubID string) error
}

type courseRepository interface {
	List(ctx context.Context, schoolID *string) ([]models.Course, error)
	FindByID(ctx context.Context, id string, schoolID *string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string, schoolID *string) error
}

type clubRepository interface {
	List(ctx context.Context, schoolID *string) ([]models.Club, error)
	FindByID(ctx context.Context, id string, schoolID *string) (*models.Club, error)
	Create(ctx context.Context, club *models.Club) error
	Members(ctx context.Context, clubID string, schoolID *string) ([]models.Student, error)
	Delete(ctx context.Context, id string, schoolID *string) error
}

type assignmentRepository interface {
	List(ctx context.Context, schoolID *string) ([]models.AssignmentDetail, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string, schoolID *string) error
}

// DirectoryService covers the school-scoped directory: students, courses,
// clubs and assignments. Reads are open to every staff role; writes are
// restricted to teachers and head teachers. Every operation resolves rows
// through the caller's school scope, so data from another school behaves
// exactly like data that does not exist.
type DirectoryService struct {
	students    studentRepository
	courses     courseRepository
	clubs       clubRepository
	assignments assignmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(students studentRepository, courses courseRepository, clubs clubRepository, assignments assignmentRepository, validate *validator.Validate, logger *zap.Logger) *DirectoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{students: students, courses: courses, clubs: clubs, assignments: assignments, validator: validate, logger: logger}
}

func staffRead(claims *models.JWTClaims) error {
	switch claims.Role {
	case models.RoleProprietor, models.RoleHeadTeacher, models.RoleViceAdmin, models.RoleViceAcademics, models.RoleTeacher:
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "directory access requires a staff role")
	}
}

func staffWrite(claims *models.JWTClaims) error {
	switch claims.Role {
	case models.RoleTeacher, models.RoleHeadTeacher:
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "directory changes require a teacher or head teacher role")
	}
}

// ListStudents returns the students in the caller's school, optionally
// filtered by a name search.
func (s *DirectoryService) ListStudents(ctx context.Context, claims *models.JWTClaims, search string) ([]models.Student, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	students, err := s.students.List(ctx, claims.SchoolID, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// GetStudent fetches one student in the caller's school.
func (s *DirectoryService) GetStudent(ctx context.Context, claims *models.JWTClaims, id string) (*models.Student, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, id, claims.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// CreateStudent adds a student to the caller's school.
func (s *DirectoryService) CreateStudent(ctx context.Context, claims *models.JWTClaims, req models.CreateStudentRequest) (*models.Student, error) {
	if err := staffWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		SchoolID:      claims.SchoolID,
		Name:          req.Name,
		GradeLabel:    req.GradeLabel,
		Attendance:    req.Attendance,
		Grades:        req.Grades,
		BehaviorNotes: req.BehaviorNotes,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// UpdateStudent replaces a student's mutable fields.
func (s *DirectoryService) UpdateStudent(ctx context.Context, claims *models.JWTClaims, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := staffWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		ID:            id,
		SchoolID:      claims.SchoolID,
		Name:          req.Name,
		GradeLabel:    req.GradeLabel,
		Attendance:    req.Attendance,
		Grades:        req.Grades,
		BehaviorNotes: req.BehaviorNotes,
	}
	if err := s.students.Update(ctx, student, claims.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.GetStudent(ctx, claims, id)
}

// DeleteStudent removes a student from the caller's school.
func (s *DirectoryService) DeleteStudent(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := staffWrite(claims); err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id, claims.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// EnrollStudent links a student to a course inside the caller's school.
// Enrolling twice is harmless.
func (s *DirectoryService) EnrollStudent(ctx context.Context, claims *models.JWTClaims, studentID, courseID string) error {
	if err := staffWrite(claims); err != nil {
		return err
	}
	if _, err := s.GetStudent(ctx, claims, studentID); err != nil {
		return err
	}
	if _, err := s.GetCourse(ctx, claims, courseID); err != nil {
		return err
	}
	if err := s.students.EnrollCourse(ctx, studentID, courseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	return nil
}

// JoinClub links a student to a club inside the caller's school. Both
// sides of the link are resolved through the caller's school scope.
func (s *DirectoryService) JoinClub(ctx context.Context, claims *models.JWTClaims, studentID, clubID string) error {
	if err := staffWrite(claims); err != nil {
		return err
	}
	if _, err := s.GetStudent(ctx, claims, studentID); err != nil {
		return err
	}
	if _, err := s.GetClub(ctx, claims, clubID); err != nil {
		return err
	}
	if err := s.students.JoinClub(ctx, studentID, clubID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to join club")
	}
	return nil
}

// ListCourses returns the courses in the caller's school.
func (s *DirectoryService) ListCourses(ctx context.Context, claims *models.JWTClaims) ([]models.Course, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	courses, err := s.courses.List(ctx, claims.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// GetCourse fetches one course in the caller's school.
func (s *DirectoryService) GetCourse(ctx context.Context, claims *models.JWTClaims, id string) (*models.Course, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, id, claims.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// CreateCourse adds a course to the caller's school.
func (s *DirectoryService) CreateCourse(ctx context.Context, claims *models.JWTClaims, req models.CreateCourseRequest) (*models.Course, error) {
	if err := staffWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		SchoolID:    claims.SchoolID,
		TeacherID:   req.TeacherID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// DeleteCourse removes a course and its assignments.
func (s *DirectoryService) DeleteCourse(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := staffWrite(claims); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id, claims.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// ListClubs returns the clubs in the caller's school.
func (s *DirectoryService) ListClubs(ctx context.Context, claims *models.JWTClaims) ([]models.Club, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	clubs, err := s.clubs.List(ctx, claims.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clubs")
	}
	return clubs, nil
}

// GetClub fetches one club in the caller's school.
func (s *DirectoryService) GetClub(ctx context.Context, claims *models.JWTClaims, id string) (*models.Club, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	club, err := s.clubs.FindByID(ctx, id, claims.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	return club, nil
}

// CreateClub adds a club to the caller's school.
func (s *DirectoryService) CreateClub(ctx context.Context, claims *models.JWTClaims, req models.CreateClubRequest) (*models.Club, error) {
	if err := staffWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid club payload")
	}
	club := &models.Club{
		SchoolID:    claims.SchoolID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create club")
	}
	return club, nil
}

// ClubMembers returns the students in a club.
func (s *DirectoryService) ClubMembers(ctx context.Context, claims *models.JWTClaims, clubID string) ([]models.Student, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	members, err := s.clubs.Members(ctx, clubID, claims.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list club members")
	}
	return members, nil
}

// DeleteClub removes a club from the caller's school.
func (s *DirectoryService) DeleteClub(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := staffWrite(claims); err != nil {
		return err
	}
	if err := s.clubs.Delete(ctx, id, claims.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete club")
	}
	return nil
}

// ListAssignments returns the assignments in the caller's school.
func (s *DirectoryService) ListAssignments(ctx context.Context, claims *models.JWTClaims) ([]models.AssignmentDetail, error) {
	if err := staffRead(claims); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.List(ctx, claims.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// CreateAssignment adds an assignment to a course in the caller's school.
// The course is resolved first so an assignment can never point across
// the school boundary.
func (s *DirectoryService) CreateAssignment(ctx context.Context, claims *models.JWTClaims, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := staffWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	course, err := s.GetCourse(ctx, claims, req.CourseID)
	if err != nil {
		return nil, err
	}
	assignment := &models.Assignment{
		CourseID:    course.ID,
		SchoolID:    claims.SchoolID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment from the caller's school.
func (s *DirectoryService) DeleteAssignment(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := staffWrite(claims); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id, claims.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}
