package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"knowledge_hub/internal/config"
	"knowledge_hub/internal/domain"
	"knowledge_hub/internal/seed"
	"knowledge_hub/internal/service"
	"knowledge_hub/internal/storage/memory"
)

type APITestSuite struct {
	suite.Suite
	server *httptest.Server
}

func (s *APITestSuite) SetupTest() {
	store := memory.New(seed.Domains(time.Now()))
	logger := slog.New(slog.DiscardHandler)
	svc := service.NewKnowledgeService(store, store, store, store, nil, logger, config.StatsConfig{})
	s.server = httptest.NewServer(NewRouter(svc, logger, []string{"http://localhost:5173"}).Setup())
}

func (s *APITestSuite) TearDownTest() {
	s.server.Close()
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) do(method, path string, body any) *http.Response {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *APITestSuite) decode(resp *http.Response, dst any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dst))
}

func (s *APITestSuite) createArticle(body map[string]any) domain.Article {
	resp := s.do(http.MethodPost, "/api/articles", body)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var a domain.Article
	s.decode(resp, &a)
	return a
}

func (s *APITestSuite) createProject(body map[string]any) domain.Project {
	resp := s.do(http.MethodPost, "/api/projects", body)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var p domain.Project
	s.decode(resp, &p)
	return p
}

func (s *APITestSuite) TestHealth() {
	resp := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Equal("healthy", body["status"])
}

func (s *APITestSuite) TestListDomains_Seeded() {
	resp := s.do(http.MethodGet, "/api/domains", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))

	var domains []domain.Domain
	s.decode(resp, &domains)
	s.Require().Len(domains, 9)
	s.Equal("embedded-systems", domains[0].ID)
	s.Equal("product-development", domains[8].ID)
}

func (s *APITestSuite) TestGetDomain() {
	resp := s.do(http.MethodGet, "/api/domains/ai-ml", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/domains/nope", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Domain not found", body.Message)
	s.Empty(body.Errors)
}

func (s *APITestSuite) TestCreateDomain() {
	resp := s.do(http.MethodPost, "/api/domains", map[string]any{
		"name":        "Robotics",
		"description": "Actuators and control",
		"icon":        "bot",
		"color":       "#ff0000",
		"progress":    10,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var d domain.Domain
	s.decode(resp, &d)
	s.NotEmpty(d.ID)
	s.Equal(10, d.Progress)
	s.Equal(d.CreatedAt, d.UpdatedAt)
}

func (s *APITestSuite) TestCreateDomain_Invalid() {
	resp := s.do(http.MethodPost, "/api/domains", map[string]any{
		"name":     "Robotics",
		"progress": 101,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Invalid domain data", body.Message)
	fields := map[string]string{}
	for _, e := range body.Errors {
		fields[e.Field] = e.Message
	}
	s.Contains(fields, "description")
	s.Contains(fields, "icon")
	s.Contains(fields, "color")
	s.Equal("progress must be at most 100", fields["progress"])
}

func (s *APITestSuite) TestCreateDomain_TypeMismatch() {
	resp := s.do(http.MethodPost, "/api/domains", `{"name":"x","description":"d","icon":"i","color":"c","progress":"lots"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Require().Len(body.Errors, 1)
	s.Equal("progress", body.Errors[0].Field)
}

func (s *APITestSuite) TestCreateDomain_TypeMismatchKeepsOtherErrors() {
	resp := s.do(http.MethodPost, "/api/domains", `{"progress":"x"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	fields := map[string]string{}
	for _, e := range body.Errors {
		fields[e.Field] = e.Message
	}
	s.Equal(map[string]string{
		"name":        "name is required",
		"description": "description is required",
		"icon":        "icon is required",
		"color":       "color is required",
		"progress":    "progress must be of type integer",
	}, fields)
}

func (s *APITestSuite) TestCreateArticle_TrailingData() {
	resp := s.do(http.MethodPost, "/api/articles", `{"title":"t","content":"c","domainId":"ai-ml"} trailing`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Require().Len(body.Errors, 1)
	s.Equal("body", body.Errors[0].Field)

	var list []domain.Article
	s.decode(s.do(http.MethodGet, "/api/articles", nil), &list)
	s.Empty(list)
}

func (s *APITestSuite) TestCreateArticle_MalformedBody() {
	resp := s.do(http.MethodPost, "/api/articles", `{"title":`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Invalid article data", body.Message)
	s.Require().Len(body.Errors, 1)
	s.Equal("body", body.Errors[0].Field)
}

func (s *APITestSuite) TestCreateArticle_UnknownDomain() {
	resp := s.do(http.MethodPost, "/api/articles", map[string]any{
		"title": "t", "content": "c", "domainId": "nowhere",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Require().Len(body.Errors, 1)
	s.Equal("domainId", body.Errors[0].Field)
}

func (s *APITestSuite) TestArticleLifecycle() {
	a := s.createArticle(map[string]any{
		"title":    "ARM Cortex-M Exception Handling",
		"content":  "NVIC",
		"domainId": "embedded-systems",
		"tags":     []string{"arm"},
	})
	s.Equal(domain.ArticleDraft, a.Status)
	s.Equal([]string{}, a.Attachments)
	s.Nil(a.Excerpt)

	resp := s.do(http.MethodPatch, "/api/articles/"+a.ID, map[string]any{"status": "published"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated domain.Article
	s.decode(resp, &updated)
	s.Equal(domain.ArticlePublished, updated.Status)
	s.Equal(a.Title, updated.Title)
	s.Equal(a.CreatedAt, updated.CreatedAt)
	s.False(updated.UpdatedAt.Before(a.UpdatedAt))

	resp = s.do(http.MethodPatch, "/api/articles/"+a.ID, map[string]any{"status": "archived"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodDelete, "/api/articles/"+a.ID, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodDelete, "/api/articles/"+a.ID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Article not found", body.Message)

	resp = s.do(http.MethodGet, "/api/articles/"+a.ID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APITestSuite) TestPatchArticle_ClearExcerpt() {
	a := s.createArticle(map[string]any{
		"title": "t", "content": "c", "domainId": "ai-ml", "excerpt": "old",
	})
	s.Require().NotNil(a.Excerpt)

	var kept domain.Article
	resp := s.do(http.MethodPatch, "/api/articles/"+a.ID, map[string]any{"title": "t2"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &kept)
	s.Require().NotNil(kept.Excerpt)
	s.Equal("old", *kept.Excerpt)

	var cleared domain.Article
	resp = s.do(http.MethodPatch, "/api/articles/"+a.ID, `{"excerpt":null}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &cleared)
	s.Nil(cleared.Excerpt)
	s.Equal("t2", cleared.Title)

	var got domain.Article
	s.decode(s.do(http.MethodGet, "/api/articles/"+a.ID, nil), &got)
	s.Nil(got.Excerpt)
}

func (s *APITestSuite) TestPatchArticle_Missing() {
	resp := s.do(http.MethodPatch, "/api/articles/missing", map[string]any{"title": "x"})
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APITestSuite) TestListArticles_ByDomain() {
	s.createArticle(map[string]any{"title": "a", "content": "c", "domainId": "ai-ml"})
	s.createArticle(map[string]any{"title": "b", "content": "c", "domainId": "iot-cloud"})

	resp := s.do(http.MethodGet, "/api/articles?domainId=ai-ml", nil)
	var scoped []domain.Article
	s.decode(resp, &scoped)
	s.Require().Len(scoped, 1)
	s.Equal("a", scoped[0].Title)

	resp = s.do(http.MethodGet, "/api/articles", nil)
	var all []domain.Article
	s.decode(resp, &all)
	s.Len(all, 2)
}

func (s *APITestSuite) TestSearch() {
	s.createArticle(map[string]any{"title": "ARM Cortex-M Exception Handling", "content": "c", "domainId": "embedded-systems"})
	s.createArticle(map[string]any{"title": "Linux", "content": "c", "domainId": "operating-systems"})

	resp := s.do(http.MethodGet, "/api/search?q=cortex", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var found searchResponse
	s.decode(resp, &found)
	s.Require().Len(found.Articles, 1)
	s.Equal("ARM Cortex-M Exception Handling", found.Articles[0].Title)

	resp = s.do(http.MethodGet, "/api/search?q=nonexistent-token-xyz", nil)
	var none map[string]json.RawMessage
	s.decode(resp, &none)
	s.JSONEq(`[]`, string(none["articles"]))

	resp = s.do(http.MethodGet, "/api/search", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Search query is required", body.Message)
}

func (s *APITestSuite) TestProjects_FeaturedFilter() {
	s.createProject(map[string]any{
		"title": "Drone", "description": "d", "domainId": "embedded-systems",
		"featured": true, "githubUrl": "https://github.com/example/drone",
	})
	s.createProject(map[string]any{"title": "Notes", "description": "d", "domainId": "embedded-systems"})
	s.createProject(map[string]any{"title": "Cluster", "description": "d", "domainId": "iot-cloud", "featured": true})

	var featured []domain.Project
	s.decode(s.do(http.MethodGet, "/api/projects?featured=true", nil), &featured)
	s.Len(featured, 2)

	var scoped []domain.Project
	s.decode(s.do(http.MethodGet, "/api/projects?featured=true&domainId=embedded-systems", nil), &scoped)
	s.Require().Len(scoped, 1)
	s.Equal("Drone", scoped[0].Title)

	var all []domain.Project
	s.decode(s.do(http.MethodGet, "/api/projects?featured=false", nil), &all)
	s.Len(all, 3)
}

func (s *APITestSuite) TestCreateProject_Invalid() {
	resp := s.do(http.MethodPost, "/api/projects", map[string]any{
		"title": "t", "description": "d", "domainId": "ai-ml",
		"githubUrl": "not a url", "status": "published",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Invalid project data", body.Message)
	s.Len(body.Errors, 2)

	resp = s.do(http.MethodPost, "/api/projects", `{"title":"t","description":"d","domainId":"ai-ml","featured":"yes"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestPatchProject() {
	p := s.createProject(map[string]any{"title": "Drone", "description": "d", "domainId": "ai-ml"})

	resp := s.do(http.MethodPatch, "/api/projects/"+p.ID, map[string]any{
		"featured":     true,
		"technologies": []string{"rust"},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated domain.Project
	s.decode(resp, &updated)
	s.True(updated.Featured)
	s.Equal([]string{"rust"}, updated.Technologies)
	s.Equal("Drone", updated.Title)

	resp = s.do(http.MethodPatch, "/api/projects/"+p.ID, map[string]any{"title": ""})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestPatchProject_ClearNullableFields() {
	p := s.createProject(map[string]any{
		"title": "Drone", "description": "d", "domainId": "ai-ml",
		"content": "notes", "githubUrl": "https://x.io/r", "demoUrl": "https://x.io/demo",
	})
	s.Require().NotNil(p.DemoURL)

	var cleared domain.Project
	resp := s.do(http.MethodPatch, "/api/projects/"+p.ID, `{"demoUrl":null,"githubUrl":null}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &cleared)
	s.Nil(cleared.DemoURL)
	s.Nil(cleared.GithubURL)
	s.Require().NotNil(cleared.Content)
	s.Equal("notes", *cleared.Content)

	var set domain.Project
	resp = s.do(http.MethodPatch, "/api/projects/"+p.ID, map[string]any{"demoUrl": "https://x.io/v2"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &set)
	s.Require().NotNil(set.DemoURL)
	s.Equal("https://x.io/v2", *set.DemoURL)
	s.Nil(set.GithubURL)

	resp = s.do(http.MethodPatch, "/api/projects/"+p.ID, map[string]any{"githubUrl": "not a url"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body errorResponse
	s.decode(resp, &body)
	s.Require().Len(body.Errors, 1)
	s.Equal("githubUrl must be a valid URL", body.Errors[0].Message)
}

func (s *APITestSuite) TestDeleteDomain() {
	a := s.createArticle(map[string]any{"title": "a", "content": "c", "domainId": "ai-ml"})

	resp := s.do(http.MethodDelete, "/api/domains/ai-ml", nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	var body errorResponse
	s.decode(resp, &body)
	s.Equal("Domain has articles or projects", body.Message)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/articles/"+a.ID, nil).StatusCode)
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/domains/ai-ml", nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/domains/ai-ml", nil).StatusCode)
}

func (s *APITestSuite) TestStats() {
	for i := 0; i < 3; i++ {
		s.createArticle(map[string]any{"title": "a", "content": "c", "domainId": "ai-ml"})
	}
	for i := 0; i < 2; i++ {
		s.createProject(map[string]any{"title": "p", "description": "d", "domainId": "ai-ml"})
	}

	var stats domain.Stats
	s.decode(s.do(http.MethodGet, "/api/stats", nil), &stats)
	s.Equal(domain.Stats{TotalArticles: 3, TotalProjects: 2, TotalDomains: 9, HoursLearned: 1240}, stats)
}

func (s *APITestSuite) TestUnknownRoute() {
	resp := s.do(http.MethodGet, "/api/nothing-here", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APITestSuite) TestCORS() {
	req, err := http.NewRequest(http.MethodOptions, s.server.URL+"/api/domains", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal("http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
