package domain

import "time"

// Domain is a topical category grouping articles and projects. Progress is set by
// the user and is never computed from the children; ArticlesCount and ProjectsCount
// are cached display values that are not reconciled with stored records.
type Domain struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	Progress      int       `json:"progress"`
	ArticlesCount int       `json:"articlesCount"`
	ProjectsCount int       `json:"projectsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type NewDomain struct {
	Name          string
	Description   string
	Icon          string
	Color         string
	Progress      int
	ArticlesCount int
	ProjectsCount int
}

type DomainPatch struct {
	Name          *string
	Description   *string
	Icon          *string
	Color         *string
	Progress      *int
	ArticlesCount *int
	ProjectsCount *int
}

func (n NewDomain) Build(id string, now time.Time) Domain {
	return Domain{
		ID:            id,
		Name:          n.Name,
		Description:   n.Description,
		Icon:          n.Icon,
		Color:         n.Color,
		Progress:      n.Progress,
		ArticlesCount: n.ArticlesCount,
		ProjectsCount: n.ProjectsCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p DomainPatch) Apply(d *Domain, now time.Time) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Icon != nil {
		d.Icon = *p.Icon
	}
	if p.Color != nil {
		d.Color = *p.Color
	}
	if p.Progress != nil {
		d.Progress = *p.Progress
	}
	if p.ArticlesCount != nil {
		d.ArticlesCount = *p.ArticlesCount
	}
	if p.ProjectsCount != nil {
		d.ProjectsCount = *p.ProjectsCount
	}
	d.UpdatedAt = laterOf(d.UpdatedAt, now)
}
