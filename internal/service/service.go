package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"knowledge_hub/internal/config"
	"knowledge_hub/internal/domain"
	"knowledge_hub/internal/validate"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDomainInUse = domain.ErrDomainInUse
)

// ProjectFilter narrows ListProjects. Both fields combine.
type ProjectFilter struct {
	DomainID     string
	FeaturedOnly bool
}

type KnowledgeService struct {
	domains   DomainStore
	articles  ArticleStore
	projects  ProjectStore
	stats     StatsStore
	publisher Publisher
	logger    *slog.Logger
	config    config.StatsConfig
	now       func() time.Time
}

// NewKnowledgeService wires the stores together. publisher may be nil.
func NewKnowledgeService(
	domains DomainStore,
	articles ArticleStore,
	projects ProjectStore,
	stats StatsStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.StatsConfig,
) *KnowledgeService {
	return &KnowledgeService{
		domains:   domains,
		articles:  articles,
		projects:  projects,
		stats:     stats,
		publisher: publisher,
		logger:    logger.With("component", "knowledge_service"),
		config:    cfg,
		now:       time.Now,
	}
}

func (s *KnowledgeService) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	domains, err := s.domains.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains, nil
}

func (s *KnowledgeService) GetDomain(ctx context.Context, id string) (*domain.Domain, error) {
	d, err := s.domains.GetDomain(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get domain: %w", err)
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *KnowledgeService) CreateDomain(ctx context.Context, fields domain.NewDomain) (*domain.Domain, error) {
	d, err := s.domains.CreateDomain(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create domain: %w", err)
	}
	s.publish(ctx, domain.ActionCreate, domain.EntityDomain, d.ID, d)
	return d, nil
}

func (s *KnowledgeService) UpdateDomain(ctx context.Context, id string, patch domain.DomainPatch) (*domain.Domain, error) {
	d, err := s.domains.UpdateDomain(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update domain: %w", err)
	}
	if d == nil {
		return nil, ErrNotFound
	}
	s.publish(ctx, domain.ActionUpdate, domain.EntityDomain, d.ID, d)
	return d, nil
}

// DeleteDomain fails with ErrDomainInUse while articles or projects reference id.
func (s *KnowledgeService) DeleteDomain(ctx context.Context, id string) error {
	ok, err := s.domains.DeleteDomain(ctx, id)
	if errors.Is(err, domain.ErrDomainInUse) {
		return ErrDomainInUse
	}
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.publish(ctx, domain.ActionDelete, domain.EntityDomain, id, nil)
	return nil
}

// ListArticles returns all articles, or those of domainID when it is non-empty.
func (s *KnowledgeService) ListArticles(ctx context.Context, domainID string) ([]domain.Article, error) {
	articles, err := s.articles.ListArticles(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *KnowledgeService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	a, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *KnowledgeService) CreateArticle(ctx context.Context, fields domain.NewArticle) (*domain.Article, error) {
	if err := s.checkDomain(ctx, fields.DomainID); err != nil {
		return nil, err
	}
	a, err := s.articles.CreateArticle(ctx, fields)
	if err != nil {
		return nil, storeError("create article", err)
	}
	s.publish(ctx, domain.ActionCreate, domain.EntityArticle, a.ID, a)
	return a, nil
}

func (s *KnowledgeService) UpdateArticle(ctx context.Context, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	if patch.DomainID != nil {
		if err := s.checkDomain(ctx, *patch.DomainID); err != nil {
			return nil, err
		}
	}
	a, err := s.articles.UpdateArticle(ctx, id, patch)
	if err != nil {
		return nil, storeError("update article", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	s.publish(ctx, domain.ActionUpdate, domain.EntityArticle, a.ID, a)
	return a, nil
}

func (s *KnowledgeService) DeleteArticle(ctx context.Context, id string) error {
	ok, err := s.articles.DeleteArticle(ctx, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.publish(ctx, domain.ActionDelete, domain.EntityArticle, id, nil)
	return nil
}

// Search matches query against article titles, contents and tags, ignoring case.
func (s *KnowledgeService) Search(ctx context.Context, query string) ([]domain.Article, error) {
	articles, err := s.articles.SearchArticles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}

func (s *KnowledgeService) ListProjects(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	if !filter.FeaturedOnly {
		projects, err := s.projects.ListProjects(ctx, filter.DomainID)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		return projects, nil
	}

	featured, err := s.projects.ListFeaturedProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list featured projects: %w", err)
	}
	if filter.DomainID == "" {
		return featured, nil
	}
	out := make([]domain.Project, 0, len(featured))
	for _, p := range featured {
		if p.DomainID == filter.DomainID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *KnowledgeService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *KnowledgeService) CreateProject(ctx context.Context, fields domain.NewProject) (*domain.Project, error) {
	if err := s.checkDomain(ctx, fields.DomainID); err != nil {
		return nil, err
	}
	p, err := s.projects.CreateProject(ctx, fields)
	if err != nil {
		return nil, storeError("create project", err)
	}
	s.publish(ctx, domain.ActionCreate, domain.EntityProject, p.ID, p)
	return p, nil
}

func (s *KnowledgeService) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if patch.DomainID != nil {
		if err := s.checkDomain(ctx, *patch.DomainID); err != nil {
			return nil, err
		}
	}
	p, err := s.projects.UpdateProject(ctx, id, patch)
	if err != nil {
		return nil, storeError("update project", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	s.publish(ctx, domain.ActionUpdate, domain.EntityProject, p.ID, p)
	return p, nil
}

func (s *KnowledgeService) DeleteProject(ctx context.Context, id string) error {
	ok, err := s.projects.DeleteProject(ctx, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.publish(ctx, domain.ActionDelete, domain.EntityProject, id, nil)
	return nil
}

// Stats reports live collection sizes plus the configured hours figure.
func (s *KnowledgeService) Stats(ctx context.Context) (domain.Stats, error) {
	counts, err := s.stats.Counts(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("count records: %w", err)
	}
	return domain.Stats{
		TotalArticles: counts.Articles,
		TotalProjects: counts.Projects,
		TotalDomains:  counts.Domains,
		HoursLearned:  s.config.Hours(),
	}, nil
}

func (s *KnowledgeService) checkDomain(ctx context.Context, id string) error {
	d, err := s.domains.GetDomain(ctx, id)
	if err != nil {
		return fmt.Errorf("get domain: %w", err)
	}
	if d == nil {
		return unknownDomain(id)
	}
	return nil
}

func unknownDomain(id string) validate.Errors {
	return validate.Field("domainId", fmt.Sprintf("domain %q does not exist", id))
}

// storeError reports a reference the store rejected (a domain removed after
// checkDomain ran) as a validation failure.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrUnknownDomain) {
		return validate.Field("domainId", "domain does not exist")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *KnowledgeService) publish(ctx context.Context, action domain.Action, entity domain.Entity, id string, payload any) {
	if s.publisher == nil {
		return
	}
	event := domain.ChangeEvent{
		Action:    action,
		Entity:    entity,
		ID:        id,
		Payload:   payload,
		Timestamp: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish change",
			"action", action,
			"entity", entity,
			"id", id,
			"error", err,
		)
	}
}
