package tms

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jrsteele09/go-tms-client/internal/errors"
)

const dueDateLayout = "2006-01-02"

type NewProject struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Normalize trims every field and upper-cases the key.
func (p *NewProject) Normalize() {
	p.Key = strings.ToUpper(strings.TrimSpace(p.Key))
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func (p NewProject) Validate() error {
	if strings.TrimSpace(p.Key) == "" {
		return errors.Required("key")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.Required("name")
	}
	return nil
}

type NewSection struct {
	ProjectID   int64  `json:"project"`
	ParentID    *int64 `json:"parent,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *NewSection) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
}

func (s NewSection) Validate() error {
	if s.ProjectID == 0 {
		return errors.Required("project")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.Required("name")
	}
	return nil
}

type NewTestCase struct {
	ProjectID   int64           `json:"project"`
	SectionID   *int64          `json:"section,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Status      string          `json:"status,omitempty"`
}

func (c *NewTestCase) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	tags := c.Tags[:0]
	for _, tag := range c.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	c.Tags = tags
}

func (c NewTestCase) Validate() error {
	if c.ProjectID == 0 {
		return errors.Required("project")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.Required("title")
	}
	if len(c.Steps) > 0 && !json.Valid(c.Steps) {
		return errors.Wrapf(errors.ErrInvalidRequest, "steps must be valid JSON")
	}
	return nil
}

type NewPlan struct {
	ProjectID   int64  `json:"project"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ReleaseID   *int64 `json:"release,omitempty"`
}

func (p *NewPlan) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func (p NewPlan) Validate() error {
	if p.ProjectID == 0 {
		return errors.Required("project")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.Required("name")
	}
	return nil
}

// PlanUpdate is a PATCH body; nil fields are left unchanged on the server.
type PlanUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ReleaseID   *int64  `json:"release,omitempty"`
}

func (u PlanUpdate) Validate() error {
	if u.Name == nil && u.Description == nil && u.ReleaseID == nil {
		return errors.Wrapf(errors.ErrInvalidRequest, "plan update has no fields")
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return errors.Required("name")
	}
	return nil
}

type NewRun struct {
	ProjectID   int64      `json:"project"`
	PlanID      *int64     `json:"plan,omitempty"`
	Name        string     `json:"name"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (r *NewRun) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r NewRun) Validate() error {
	if r.ProjectID == 0 {
		return errors.Required("project")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.Required("name")
	}
	return nil
}

type NewRelease struct {
	ProjectID int64  `json:"project"`
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
}

func (r *NewRelease) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Version = strings.TrimSpace(r.Version)
	r.DueDate = strings.TrimSpace(r.DueDate)
}

func (r NewRelease) Validate() error {
	if r.ProjectID == 0 {
		return errors.Required("project")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.Required("name")
	}
	if r.DueDate != "" {
		if _, err := time.Parse(dueDateLayout, r.DueDate); err != nil {
			return errors.Wrapf(errors.ErrInvalidRequest, "due_date %q must be YYYY-MM-DD", r.DueDate)
		}
	}
	return nil
}
