package api

import "knowledge_hub/internal/domain"

// Create requests use plain fields for required values. Patch requests use
// pointers so an absent or null field keeps its stored value. The nullable
// columns use domain.Nullable, where an explicit null clears the value.

type createDomainRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Icon          string `json:"icon" validate:"required"`
	Color         string `json:"color" validate:"required"`
	Progress      *int   `json:"progress" validate:"omitnil,min=0,max=100"`
	ArticlesCount *int   `json:"articlesCount" validate:"omitnil,min=0"`
	ProjectsCount *int   `json:"projectsCount" validate:"omitnil,min=0"`
}

func (r createDomainRequest) toDomain() domain.NewDomain {
	return domain.NewDomain{
		Name:          r.Name,
		Description:   r.Description,
		Icon:          r.Icon,
		Color:         r.Color,
		Progress:      valueOr(r.Progress, 0),
		ArticlesCount: valueOr(r.ArticlesCount, 0),
		ProjectsCount: valueOr(r.ProjectsCount, 0),
	}
}

type patchDomainRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=1"`
	Description   *string `json:"description" validate:"omitnil,min=1"`
	Icon          *string `json:"icon" validate:"omitnil,min=1"`
	Color         *string `json:"color" validate:"omitnil,min=1"`
	Progress      *int    `json:"progress" validate:"omitnil,min=0,max=100"`
	ArticlesCount *int    `json:"articlesCount" validate:"omitnil,min=0"`
	ProjectsCount *int    `json:"projectsCount" validate:"omitnil,min=0"`
}

func (r patchDomainRequest) toPatch() domain.DomainPatch {
	return domain.DomainPatch{
		Name:          r.Name,
		Description:   r.Description,
		Icon:          r.Icon,
		Color:         r.Color,
		Progress:      r.Progress,
		ArticlesCount: r.ArticlesCount,
		ProjectsCount: r.ProjectsCount,
	}
}

type createArticleRequest struct {
	Title       string   `json:"title" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Excerpt     *string  `json:"excerpt"`
	DomainID    string   `json:"domainId" validate:"required"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft in-progress published completed"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
}

func (r createArticleRequest) toArticle() domain.NewArticle {
	return domain.NewArticle{
		Title:       r.Title,
		Content:     r.Content,
		Excerpt:     r.Excerpt,
		DomainID:    r.DomainID,
		Status:      domain.ArticleStatus(r.Status),
		Tags:        r.Tags,
		Attachments: r.Attachments,
	}
}

type patchArticleRequest struct {
	Title       *string                 `json:"title" validate:"omitnil,min=1"`
	Content     *string                 `json:"content" validate:"omitnil,min=1"`
	Excerpt     domain.Nullable[string] `json:"excerpt"`
	DomainID    *string                 `json:"domainId" validate:"omitnil,min=1"`
	Status      *string                 `json:"status" validate:"omitnil,oneof=draft in-progress published completed"`
	Tags        *[]string               `json:"tags"`
	Attachments *[]string               `json:"attachments"`
}

func (r patchArticleRequest) toPatch() domain.ArticlePatch {
	p := domain.ArticlePatch{
		Title:       r.Title,
		Content:     r.Content,
		Excerpt:     r.Excerpt,
		DomainID:    r.DomainID,
		Tags:        r.Tags,
		Attachments: r.Attachments,
	}
	if r.Status != nil {
		status := domain.ArticleStatus(*r.Status)
		p.Status = &status
	}
	return p
}

type createProjectRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Content      *string  `json:"content"`
	DomainID     string   `json:"domainId" validate:"required"`
	GithubURL    *string  `json:"githubUrl" validate:"omitempty,url"`
	DemoURL      *string  `json:"demoUrl" validate:"omitempty,url"`
	Status       string   `json:"status" validate:"omitempty,oneof=draft in-progress completed"`
	Tags         []string `json:"tags"`
	Technologies []string `json:"technologies"`
	Featured     bool     `json:"featured"`
}

func (r createProjectRequest) toProject() domain.NewProject {
	return domain.NewProject{
		Title:        r.Title,
		Description:  r.Description,
		Content:      r.Content,
		DomainID:     r.DomainID,
		GithubURL:    r.GithubURL,
		DemoURL:      r.DemoURL,
		Status:       domain.ProjectStatus(r.Status),
		Tags:         r.Tags,
		Technologies: r.Technologies,
		Featured:     r.Featured,
	}
}

type patchProjectRequest struct {
	Title        *string                 `json:"title" validate:"omitnil,min=1"`
	Description  *string                 `json:"description" validate:"omitnil,min=1"`
	Content      domain.Nullable[string] `json:"content"`
	DomainID     *string                 `json:"domainId" validate:"omitnil,min=1"`
	GithubURL    domain.Nullable[string] `json:"githubUrl" validate:"omitempty,url"`
	DemoURL      domain.Nullable[string] `json:"demoUrl" validate:"omitempty,url"`
	Status       *string                 `json:"status" validate:"omitnil,oneof=draft in-progress completed"`
	Tags         *[]string               `json:"tags"`
	Technologies *[]string               `json:"technologies"`
	Featured     *bool                   `json:"featured"`
}

func (r patchProjectRequest) toPatch() domain.ProjectPatch {
	p := domain.ProjectPatch{
		Title:        r.Title,
		Description:  r.Description,
		Content:      r.Content,
		DomainID:     r.DomainID,
		GithubURL:    r.GithubURL,
		DemoURL:      r.DemoURL,
		Tags:         r.Tags,
		Technologies: r.Technologies,
		Featured:     r.Featured,
	}
	if r.Status != nil {
		status := domain.ProjectStatus(*r.Status)
		p.Status = &status
	}
	return p
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
