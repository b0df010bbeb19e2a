package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"knowledge_hub/internal/domain"
)

// Stores report absence with a nil record (or false for deletes), never with an error.

type DomainStore interface {
	ListDomains(ctx context.Context) ([]domain.Domain, error)
	GetDomain(ctx context.Context, id string) (*domain.Domain, error)
	CreateDomain(ctx context.Context, fields domain.NewDomain) (*domain.Domain, error)
	UpdateDomain(ctx context.Context, id string, patch domain.DomainPatch) (*domain.Domain, error)
	DeleteDomain(ctx context.Context, id string) (bool, error)
}

type ArticleStore interface {
	// ListArticles returns every article, or only those of domainID when it is non-empty.
	ListArticles(ctx context.Context, domainID string) ([]domain.Article, error)
	GetArticle(ctx context.Context, id string) (*domain.Article, error)
	CreateArticle(ctx context.Context, fields domain.NewArticle) (*domain.Article, error)
	UpdateArticle(ctx context.Context, id string, patch domain.ArticlePatch) (*domain.Article, error)
	DeleteArticle(ctx context.Context, id string) (bool, error)
	SearchArticles(ctx context.Context, query string) ([]domain.Article, error)
}

type ProjectStore interface {
	ListProjects(ctx context.Context, domainID string) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, fields domain.NewProject) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)
	ListFeaturedProjects(ctx context.Context) ([]domain.Project, error)
}

type StatsStore interface {
	Counts(ctx context.Context) (domain.Counts, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Close() error
}
