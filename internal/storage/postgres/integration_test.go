//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"knowledge_hub/internal/domain"
	"knowledge_hub/internal/seed"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB

	domains  *DomainStore
	articles *ArticleStore
	projects *ProjectStore
	stats    *StatsStore
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_domains.up.sql"),
			filepath.Join(migrationsPath, "002_create_articles_projects.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db

	s.domains = NewDomainStore(db)
	s.articles = NewArticleStore(db)
	s.projects = NewProjectStore(db)
	s.stats = NewStatsStore(db)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM projects")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM domains")
	s.Require().NoError(s.domains.Seed(s.ctx, seed.Domains(time.Now().UTC().Truncate(time.Microsecond))))
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *PostgresIntegrationSuite) TestSeed_OrderAndIdempotence() {
	first, err := s.domains.ListDomains(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(first, 9)
	s.Equal("embedded-systems", first[0].ID)
	s.Equal("product-development", first[8].ID)

	_, err = s.domains.UpdateDomain(s.ctx, "ai-ml", domain.DomainPatch{Progress: ptr(99)})
	s.Require().NoError(err)

	s.Require().NoError(s.domains.Seed(s.ctx, seed.Domains(time.Now())))
	again, err := s.domains.ListDomains(s.ctx)
	s.Require().NoError(err)
	s.Len(again, 9)
	s.Equal(99, again[1].Progress)
}

func (s *PostgresIntegrationSuite) TestArticle_CreateGetUpdate() {
	created, err := s.articles.CreateArticle(s.ctx, domain.NewArticle{
		Title:    "ARM Cortex-M Exception Handling",
		Content:  "NVIC and vector tables",
		DomainID: "embedded-systems",
		Tags:     []string{"arm", "interrupts"},
	})
	s.Require().NoError(err)
	s.Equal(domain.ArticleDraft, created.Status)
	s.True(created.CreatedAt.Equal(created.UpdatedAt))

	got, err := s.articles.GetArticle(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal([]string{"arm", "interrupts"}, got.Tags)
	s.Equal([]string{}, got.Attachments)
	s.Nil(got.Excerpt)

	status := domain.ArticlePublished
	updated, err := s.articles.UpdateArticle(s.ctx, created.ID, domain.ArticlePatch{
		Status:  &status,
		Excerpt: domain.NullableOf("short"),
	})
	s.Require().NoError(err)
	s.Equal(domain.ArticlePublished, updated.Status)
	s.Equal("ARM Cortex-M Exception Handling", updated.Title)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))

	got, err = s.articles.GetArticle(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("short", *got.Excerpt)

	cleared, err := s.articles.UpdateArticle(s.ctx, created.ID, domain.ArticlePatch{Excerpt: domain.Null[string]()})
	s.Require().NoError(err)
	s.Nil(cleared.Excerpt)

	got, err = s.articles.GetArticle(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Nil(got.Excerpt)
	s.Equal(domain.ArticlePublished, got.Status)
}

func (s *PostgresIntegrationSuite) TestArticle_Absent() {
	got, err := s.articles.GetArticle(s.ctx, "missing")
	s.NoError(err)
	s.Nil(got)

	updated, err := s.articles.UpdateArticle(s.ctx, "missing", domain.ArticlePatch{Title: ptr("x")})
	s.NoError(err)
	s.Nil(updated)

	ok, err := s.articles.DeleteArticle(s.ctx, "missing")
	s.NoError(err)
	s.False(ok)
}

func (s *PostgresIntegrationSuite) TestArticle_UnknownDomain() {
	_, err := s.articles.CreateArticle(s.ctx, domain.NewArticle{Title: "t", Content: "c", DomainID: "nowhere"})
	s.ErrorIs(err, domain.ErrUnknownDomain)
}

func (s *PostgresIntegrationSuite) TestSearchArticles() {
	for _, a := range []domain.NewArticle{
		{Title: "ARM Cortex-M Exception Handling", Content: "vectors", DomainID: "embedded-systems"},
		{Title: "Scheduling", Content: "Preemption in RTOS kernels", DomainID: "operating-systems"},
		{Title: "Vehicle buses", Content: "frames", DomainID: "networking-protocols", Tags: []string{"CAN-bus"}},
		{Title: "100% coverage", Content: "x", DomainID: "tools-devops"},
	} {
		_, err := s.articles.CreateArticle(s.ctx, a)
		s.Require().NoError(err)
	}

	cases := map[string]int{
		"cortex":                1,
		"PREEMPTION":            1,
		"can-bus":               1,
		"%":                     1,
		"_":                     0,
		"nonexistent-token-xyz": 0,
		"":                      0,
	}
	for query, want := range cases {
		found, err := s.articles.SearchArticles(s.ctx, query)
		s.Require().NoError(err)
		s.Len(found, want, "query %q", query)
	}
}

func (s *PostgresIntegrationSuite) TestProjects_FeaturedAndDomainScope() {
	_, err := s.projects.CreateProject(s.ctx, domain.NewProject{
		Title: "Drone", Description: "d", DomainID: "embedded-systems", Featured: true,
		GithubURL: ptr("https://github.com/example/drone"),
	})
	s.Require().NoError(err)
	_, err = s.projects.CreateProject(s.ctx, domain.NewProject{
		Title: "Notes", Description: "d", DomainID: "ai-ml",
	})
	s.Require().NoError(err)

	featured, err := s.projects.ListFeaturedProjects(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(featured, 1)
	s.Equal("Drone", featured[0].Title)
	s.Equal("https://github.com/example/drone", *featured[0].GithubURL)

	scoped, err := s.projects.ListProjects(s.ctx, "ai-ml")
	s.Require().NoError(err)
	s.Require().Len(scoped, 1)
	s.Equal("Notes", scoped[0].Title)

	all, err := s.projects.ListProjects(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Equal("Drone", all[0].Title)
}

func (s *PostgresIntegrationSuite) TestDeleteDomain_InUse() {
	p, err := s.projects.CreateProject(s.ctx, domain.NewProject{Title: "t", Description: "d", DomainID: "iot-cloud"})
	s.Require().NoError(err)

	ok, err := s.domains.DeleteDomain(s.ctx, "iot-cloud")
	s.ErrorIs(err, domain.ErrDomainInUse)
	s.False(ok)

	ok, err = s.projects.DeleteProject(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.domains.DeleteDomain(s.ctx, "iot-cloud")
	s.NoError(err)
	s.True(ok)
	ok, err = s.domains.DeleteDomain(s.ctx, "iot-cloud")
	s.NoError(err)
	s.False(ok)
}

func (s *PostgresIntegrationSuite) TestCounts() {
	for i := 0; i < 3; i++ {
		_, err := s.articles.CreateArticle(s.ctx, domain.NewArticle{Title: "t", Content: "c", DomainID: "ai-ml"})
		s.Require().NoError(err)
	}
	for i := 0; i < 2; i++ {
		_, err := s.projects.CreateProject(s.ctx, domain.NewProject{Title: "t", Description: "d", DomainID: "ai-ml"})
		s.Require().NoError(err)
	}

	counts, err := s.stats.Counts(s.ctx)
	s.NoError(err)
	s.Equal(domain.Counts{Articles: 3, Projects: 2, Domains: 9}, counts)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)

	var id string
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		a, err := s.articles.CreateArticle(ctx, domain.NewArticle{Title: "tx", Content: "c", DomainID: "ai-ml"})
		if err != nil {
			return err
		}
		id = a.ID
		return nil
	})
	s.NoError(err)

	got, err := s.articles.GetArticle(s.ctx, id)
	s.NoError(err)
	s.NotNil(got)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := s.articles.CreateArticle(ctx, domain.NewArticle{Title: "rolled back", Content: "c", DomainID: "ai-ml"}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.ErrorIs(err, context.Canceled)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM articles WHERE title = $1", "rolled back")
	s.NoError(err)
	s.Equal(0, count)
}
