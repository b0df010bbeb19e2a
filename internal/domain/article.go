package domain

import (
	"slices"
	"time"
)

type ArticleStatus string

const (
	ArticleDraft      ArticleStatus = "draft"
	ArticleInProgress ArticleStatus = "in-progress"
	ArticlePublished  ArticleStatus = "published"
	ArticleCompleted  ArticleStatus = "completed"
)

// Article is a piece of written content owned by exactly one Domain.
type Article struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Excerpt     *string       `json:"excerpt"`
	DomainID    string        `json:"domainId"`
	Status      ArticleStatus `json:"status"`
	Tags        []string      `json:"tags"`
	Attachments []string      `json:"attachments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// NewArticle holds the caller supplied fields of an Article.
type NewArticle struct {
	Title       string
	Content     string
	Excerpt     *string
	DomainID    string
	Status      ArticleStatus
	Tags        []string
	Attachments []string
}

// ArticlePatch is a partial update. Nil fields keep their current value;
// Excerpt can also be cleared with an explicit null.
type ArticlePatch struct {
	Title       *string
	Content     *string
	Excerpt     Nullable[string]
	DomainID    *string
	Status      *ArticleStatus
	Tags        *[]string
	Attachments *[]string
}

// Build turns the supplied fields into a record with the given identity and both
// timestamps set to now.
func (n NewArticle) Build(id string, now time.Time) Article {
	status := n.Status
	if status == "" {
		status = ArticleDraft
	}
	return Article{
		ID:          id,
		Title:       n.Title,
		Content:     n.Content,
		Excerpt:     cloneString(n.Excerpt),
		DomainID:    n.DomainID,
		Status:      status,
		Tags:        cloneStrings(n.Tags),
		Attachments: cloneStrings(n.Attachments),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges the supplied fields into a and stamps UpdatedAt.
func (p ArticlePatch) Apply(a *Article, now time.Time) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	p.Excerpt.apply(&a.Excerpt)
	if p.DomainID != nil {
		a.DomainID = *p.DomainID
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Tags != nil {
		a.Tags = cloneStrings(*p.Tags)
	}
	if p.Attachments != nil {
		a.Attachments = cloneStrings(*p.Attachments)
	}
	a.UpdatedAt = laterOf(a.UpdatedAt, now)
}

// Clone returns a deep copy.
func (a Article) Clone() Article {
	a.Excerpt = cloneString(a.Excerpt)
	a.Tags = cloneStrings(a.Tags)
	a.Attachments = cloneStrings(a.Attachments)
	return a
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func laterOf(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
