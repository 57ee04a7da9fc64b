package models

// Dashboard route names, in the exact priority order the router resolves
// them. The order is deliberate: a proprietor who somehow also matches a
// lower role still lands on the proprietor dashboard.
const (
	DashboardProprietor  = "proprietor_dashboard"
	DashboardHeadTeacher = "headteacher_dashboard"
	DashboardVice        = "vice_dashboard"
	DashboardTeacher     = "teacher_dashboard"
	DashboardParent      = "parent_dashboard"
	DashboardHome        = "home"
)

// DashboardRoute pairs the resolved route with the caller's identity.
type DashboardRoute struct {
	Route string   `json:"route"`
	User  UserInfo `json:"user"`
}

// TeacherDashboard summarises the teacher's own lesson plans.
type TeacherDashboard struct {
	CoursesTaught string       `json:"courses_taught"`
	Plans         []LessonPlan `json:"plans"`
	PendingCount  int          `json:"pending_count"`
	ApprovedCount int          `json:"approved_count"`
	RejectedCount int          `json:"rejected_count"`
}

// HeadTeacherDashboard summarises the review queue for a school.
type HeadTeacherDashboard struct {
	PendingPlans []LessonPlanDetail `json:"pending_plans"`
	PendingCount int                `json:"pending_count"`
}

// ParentDashboard surfaces the parent's children and their assignments.
type ParentDashboard struct {
	Students    []Student          `json:"students"`
	Assignments []AssignmentDetail `json:"assignments"`
}

// ProprietorDashboard gives the tenant-level headcounts.
type ProprietorDashboard struct {
	Schools      int `json:"schools"`
	Students     int `json:"students"`
	Teachers     int `json:"teachers"`
	LessonPlans  int `json:"lesson_plans"`
	PendingPlans int `json:"pending_plans"`
}
