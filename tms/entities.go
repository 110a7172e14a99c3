// Package tms holds the test-management entities served under /tms/api/. The backend owns
// identity and consistency; the client only builds create payloads and renders lists.
package tms

import (
	"encoding/json"
	"time"
)

type Project struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id,omitempty"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Section struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project"`
	ParentID    *int64    `json:"parent,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Test case statuses.
const (
	CaseStatusDraft      = "draft"
	CaseStatusActive     = "active"
	CaseStatusDeprecated = "deprecated"
)

type TestCase struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project"`
	SectionID   *int64          `json:"section,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Status      string          `json:"status,omitempty"`
	Version     int             `json:"version,omitempty"`
	IsAutomated bool            `json:"is_automated,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

type Plan struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	ReleaseID       *int64    `json:"release,omitempty"`
	CreatedByUserID *int64    `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// Run statuses.
const (
	RunStatusPlanned    = "planned"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
	RunStatusAborted    = "aborted"
)

type Run struct {
	ID              int64      `json:"id"`
	ProjectID       int64      `json:"project"`
	PlanID          *int64     `json:"plan,omitempty"`
	Name            string     `json:"name"`
	Status          string     `json:"status,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	IsAutomation    bool       `json:"is_automation,omitempty"`
	CreatedByUserID *int64     `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at,omitempty"`
}

type Release struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project"`
	Name      string    `json:"name"`
	Version   string    `json:"version,omitempty"`
	DueDate   string    `json:"due_date,omitempty"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at,omitempty"`
}
