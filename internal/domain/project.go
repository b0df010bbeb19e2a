package domain

import "time"

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Project is a portfolio entry owned by exactly one Domain.
type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Content      *string       `json:"content"`
	DomainID     string        `json:"domainId"`
	GithubURL    *string       `json:"githubUrl"`
	DemoURL      *string       `json:"demoUrl"`
	Status       ProjectStatus `json:"status"`
	Tags         []string      `json:"tags"`
	Technologies []string      `json:"technologies"`
	Featured     bool          `json:"featured"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type NewProject struct {
	Title        string
	Description  string
	Content      *string
	DomainID     string
	GithubURL    *string
	DemoURL      *string
	Status       ProjectStatus
	Tags         []string
	Technologies []string
	Featured     bool
}

type ProjectPatch struct {
	Title        *string
	Description  *string
	Content      Nullable[string]
	DomainID     *string
	GithubURL    Nullable[string]
	DemoURL      Nullable[string]
	Status       *ProjectStatus
	Tags         *[]string
	Technologies *[]string
	Featured     *bool
}

func (n NewProject) Build(id string, now time.Time) Project {
	status := n.Status
	if status == "" {
		status = ProjectDraft
	}
	return Project{
		ID:           id,
		Title:        n.Title,
		Description:  n.Description,
		Content:      cloneString(n.Content),
		DomainID:     n.DomainID,
		GithubURL:    cloneString(n.GithubURL),
		DemoURL:      cloneString(n.DemoURL),
		Status:       status,
		Tags:         cloneStrings(n.Tags),
		Technologies: cloneStrings(n.Technologies),
		Featured:     n.Featured,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p ProjectPatch) Apply(pr *Project, now time.Time) {
	if p.Title != nil {
		pr.Title = *p.Title
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	p.Content.apply(&pr.Content)
	if p.DomainID != nil {
		pr.DomainID = *p.DomainID
	}
	p.GithubURL.apply(&pr.GithubURL)
	p.DemoURL.apply(&pr.DemoURL)
	if p.Status != nil {
		pr.Status = *p.Status
	}
	if p.Tags != nil {
		pr.Tags = cloneStrings(*p.Tags)
	}
	if p.Technologies != nil {
		pr.Technologies = cloneStrings(*p.Technologies)
	}
	if p.Featured != nil {
		pr.Featured = *p.Featured
	}
	pr.UpdatedAt = laterOf(pr.UpdatedAt, now)
}

func (p Project) Clone() Project {
	p.Content = cloneString(p.Content)
	p.GithubURL = cloneString(p.GithubURL)
	p.DemoURL = cloneString(p.DemoURL)
	p.Tags = cloneStrings(p.Tags)
	p.Technologies = cloneStrings(p.Technologies)
	return p
}
