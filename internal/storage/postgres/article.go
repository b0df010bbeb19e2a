package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"knowledge_hub/internal/domain"
)

const articleColumns = `id, title, content, excerpt, domain_id, status, tags,
	attachments, created_at, updated_at`

type articleRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Content     string         `db:"content"`
	Excerpt     *string        `db:"excerpt"`
	DomainID    string         `db:"domain_id"`
	Status      string         `db:"status"`
	Tags        pq.StringArray `db:"tags"`
	Attachments pq.StringArray `db:"attachments"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r articleRow) toArticle() domain.Article {
	return domain.Article{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		Excerpt:     r.Excerpt,
		DomainID:    r.DomainID,
		Status:      domain.ArticleStatus(r.Status),
		Tags:        fromArray(r.Tags),
		Attachments: fromArray(r.Attachments),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type ArticleStore struct {
	db *sqlx.DB
	tx *TransactionManager
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db, tx: NewTransactionManager(db)}
}

func (s *ArticleStore) ListArticles(ctx context.Context, domainID string) ([]domain.Article, error) {
	if domainID == "" {
		return s.selectArticles(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY position`)
	}
	return s.selectArticles(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE domain_id = $1 ORDER BY position`,
		domainID,
	)
}

func (s *ArticleStore) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return s.get(ctx, id, false)
}

// CreateArticle returns domain.ErrUnknownDomain when the referenced domain is gone.
func (s *ArticleStore) CreateArticle(ctx context.Context, fields domain.NewArticle) (*domain.Article, error) {
	a := fields.Build(uuid.NewString(), now())

	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		a.ID, a.Title, a.Content, a.Excerpt, a.DomainID, string(a.Status),
		toArray(a.Tags), toArray(a.Attachments), a.CreatedAt, a.UpdatedAt,
	)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrUnknownDomain
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleStore) UpdateArticle(ctx context.Context, id string, patch domain.ArticlePatch) (*domain.Article, error) {
	var updated *domain.Article
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		a, err := s.get(txCtx, id, true)
		if err != nil || a == nil {
			return err
		}
		patch.Apply(a, now())

		query := `
			UPDATE articles SET
				title = $2, content = $3, excerpt = $4, domain_id = $5, status = $6,
				tags = $7, attachments = $8, updated_at = $9
			WHERE id = $1`
		_, err = GetExecutor(txCtx, s.db).ExecContext(txCtx, query,
			a.ID, a.Title, a.Content, a.Excerpt, a.DomainID, string(a.Status),
			toArray(a.Tags), toArray(a.Attachments), a.UpdatedAt,
		)
		if err != nil {
			return err
		}
		updated = a
		return nil
	})
	if isForeignKeyViolation(err) {
		return nil, domain.ErrUnknownDomain
	}
	return updated, err
}

func (s *ArticleStore) DeleteArticle(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SearchArticles matches title, content or any tag case-insensitively. LIKE
// wildcards in query are taken literally. An empty query matches nothing.
func (s *ArticleStore) SearchArticles(ctx context.Context, query string) ([]domain.Article, error) {
	if query == "" {
		return []domain.Article{}, nil
	}

	return s.selectArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE title ILIKE $1
		   OR content ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $1)
		ORDER BY position`,
		containsPattern(query),
	)
}

func (s *ArticleStore) selectArticles(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	var rows []articleRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]domain.Article, len(rows))
	for i, r := range rows {
		out[i] = r.toArticle()
	}
	return out, nil
}

func (s *ArticleStore) get(ctx context.Context, id string, forUpdate bool) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row articleRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a := row.toArticle()
	return &a, nil
}
