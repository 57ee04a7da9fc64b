package models

import "time"

// PlanStatus is the explicit tri-state review outcome of a lesson plan.
type PlanStatus string

const (
	PlanStatusPending  PlanStatus = "PENDING"
	PlanStatusApproved PlanStatus = "APPROVED"
	PlanStatusRejected PlanStatus = "REJECTED"
)

// Decision is a reviewer's verdict on a pending lesson plan.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status returns the plan status a decision resolves to.
func (d Decision) Status() PlanStatus {
	if d == DecisionApprove {
		return PlanStatusApproved
	}
	return PlanStatusRejected
}

// LessonPlan is authored once by a teacher and only ever mutated by a
// reviewer's decision. RejectionReason is non-empty only while the most
// recent decision was a rejection.
type LessonPlan struct {
	ID              string     `db:"id" json:"id"`
	TeacherID       string     `db:"teacher_id" json:"teacher_id"`
	SchoolID        *string    `db:"school_id" json:"school_id,omitempty"`
	Title           string     `db:"title" json:"title"`
	Objective       string     `db:"objective" json:"objective"`
	Materials       string     `db:"materials" json:"materials"`
	Activities      string     `db:"activities" json:"activities"`
	Status          PlanStatus `db:"status" json:"status"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	DecidedBy       *string    `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt       *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	SubmittedAt     time.Time  `db:"submitted_at" json:"submitted_at"`
}

// LessonPlanDetail joins in the author's name for review listings.
type LessonPlanDetail struct {
	LessonPlan
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// SubmitLessonPlanRequest is the teacher's submission payload.
type SubmitLessonPlanRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Objective  string `json:"objective" validate:"required"`
	Materials  string `json:"materials"`
	Activities string `json:"activities"`
}

// DecideLessonPlanRequest carries a reviewer's verdict. Reason is stored
// only when the decision is a rejection.
type DecideLessonPlanRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason" validate:"max=2000"`
}

// DecisionResult is the user-visible confirmation of a decision.
type DecisionResult struct {
	PlanID   string     `json:"plan_id"`
	Title    string     `json:"title"`
	Status   PlanStatus `json:"status"`
	Message  string     `json:"message"`
	Decided  time.Time  `json:"decided_at"`
	Reviewer string     `json:"reviewer"`
}
