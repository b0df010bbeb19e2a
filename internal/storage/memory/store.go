// Package memory is the default backend: three insertion-ordered collections kept in
// process memory. Records never leave the package by reference; every read and write
// goes through a deep copy.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"knowledge_hub/internal/domain"
)

// collection is a map that remembers insertion order. Updates keep a record's
// position; deletes remove it.
type collection[T any] struct {
	order []string
	items map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) put(id string, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	return true
}

func (c *collection[T]) len() int {
	return len(c.items)
}

// filter walks the collection in order and returns copies of the matching values.
func (c *collection[T]) filter(keep func(T) bool, clone func(T) T) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := c.items[id]
		if keep == nil || keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

// Store implements the domain, article, project and stats stores. Context arguments
// are accepted for interface parity with the SQL backend; nothing here blocks.
type Store struct {
	mu       sync.RWMutex
	domains  *collection[domain.Domain]
	articles *collection[domain.Article]
	projects *collection[domain.Project]
	now      func() time.Time
	newID    func() string
}

// New returns a ready store whose domain collection holds seed, in order. Articles and
// projects start empty.
func New(seed []domain.Domain) *Store {
	s := &Store{
		domains:  newCollection[domain.Domain](),
		articles: newCollection[domain.Article](),
		projects: newCollection[domain.Project](),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, d := range seed {
		s.domains.put(d.ID, d)
	}
	return s
}

func cloneDomain(d domain.Domain) domain.Domain { return d }

func ptr[T any](v T) *T { return &v }

func (s *Store) ListDomains(_ context.Context) ([]domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domains.filter(nil, cloneDomain), nil
}

func (s *Store) GetDomain(_ context.Context, id string) (*domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains.get(id)
	if !ok {
		return nil, nil
	}
	return ptr(d), nil
}

func (s *Store) CreateDomain(_ context.Context, fields domain.NewDomain) (*domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := fields.Build(s.newID(), s.now())
	s.domains.put(d.ID, d)
	return ptr(d), nil
}

func (s *Store) UpdateDomain(_ context.Context, id string, patch domain.DomainPatch) (*domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.domains.get(id)
	if !ok {
		return nil, nil
	}
	patch.Apply(&d, s.now())
	s.domains.put(id, d)
	return ptr(d), nil
}

// DeleteDomain refuses with domain.ErrDomainInUse while any article or project
// references id.
func (s *Store) DeleteDomain(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domains.get(id); !ok {
		return false, nil
	}
	if s.referenced(id) {
		return false, domain.ErrDomainInUse
	}
	return s.domains.remove(id), nil
}

func (s *Store) referenced(domainID string) bool {
	for _, a := range s.articles.items {
		if a.DomainID == domainID {
			return true
		}
	}
	for _, p := range s.projects.items {
		if p.DomainID == domainID {
			return true
		}
	}
	return false
}

func (s *Store) ListArticles(_ context.Context, domainID string) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articles.filter(byArticleDomain(domainID), domain.Article.Clone), nil
}

func (s *Store) GetArticle(_ context.Context, id string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles.get(id)
	if !ok {
		return nil, nil
	}
	return ptr(a.Clone()), nil
}

func (s *Store) CreateArticle(_ context.Context, fields domain.NewArticle) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := fields.Build(s.newID(), s.now())
	s.articles.put(a.ID, a)
	return ptr(a.Clone()), nil
}

func (s *Store) UpdateArticle(_ context.Context, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles.get(id)
	if !ok {
		return nil, nil
	}
	a = a.Clone()
	patch.Apply(&a, s.now())
	s.articles.put(id, a)
	return ptr(a.Clone()), nil
}

func (s *Store) DeleteArticle(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.articles.remove(id), nil
}

// SearchArticles returns, in store order, every article whose title, content or any
// tag contains query, ignoring case. An empty query matches nothing.
func (s *Store) SearchArticles(_ context.Context, query string) ([]domain.Article, error) {
	if query == "" {
		return []domain.Article{}, nil
	}
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articles.filter(func(a domain.Article) bool {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Content), q) {
			return true
		}
		return slices.ContainsFunc(a.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), q)
		})
	}, domain.Article.Clone), nil
}

func (s *Store) ListProjects(_ context.Context, domainID string) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.filter(byProjectDomain(domainID), domain.Project.Clone), nil
}

func (s *Store) GetProject(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects.get(id)
	if !ok {
		return nil, nil
	}
	return ptr(p.Clone()), nil
}

func (s *Store) CreateProject(_ context.Context, fields domain.NewProject) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := fields.Build(s.newID(), s.now())
	s.projects.put(p.ID, p)
	return ptr(p.Clone()), nil
}

func (s *Store) UpdateProject(_ context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects.get(id)
	if !ok {
		return nil, nil
	}
	p = p.Clone()
	patch.Apply(&p, s.now())
	s.projects.put(id, p)
	return ptr(p.Clone()), nil
}

func (s *Store) DeleteProject(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.remove(id), nil
}

func (s *Store) ListFeaturedProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.filter(func(p domain.Project) bool { return p.Featured }, domain.Project.Clone), nil
}

func (s *Store) Counts(_ context.Context) (domain.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Counts{
		Articles: s.articles.len(),
		Projects: s.projects.len(),
		Domains:  s.domains.len(),
	}, nil
}

func byArticleDomain(domainID string) func(domain.Article) bool {
	if domainID == "" {
		return nil
	}
	return func(a domain.Article) bool { return a.DomainID == domainID }
}

func byProjectDomain(domainID string) func(domain.Project) bool {
	if domainID == "" {
		return nil
	}
	return func(p domain.Project) bool { return p.DomainID == domainID }
}
