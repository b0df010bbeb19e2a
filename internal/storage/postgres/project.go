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

const projectColumns = `id, title, description, content, domain_id, github_url,
	demo_url, status, tags, technologies, featured, created_at, updated_at`

type projectRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Content      *string        `db:"content"`
	DomainID     string         `db:"domain_id"`
	GithubURL    *string        `db:"github_url"`
	DemoURL      *string        `db:"demo_url"`
	Status       string         `db:"status"`
	Tags         pq.StringArray `db:"tags"`
	Technologies pq.StringArray `db:"technologies"`
	Featured     bool           `db:"featured"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r projectRow) toProject() domain.Project {
	return domain.Project{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Content:      r.Content,
		DomainID:     r.DomainID,
		GithubURL:    r.GithubURL,
		DemoURL:      r.DemoURL,
		Status:       domain.ProjectStatus(r.Status),
		Tags:         fromArray(r.Tags),
		Technologies: fromArray(r.Technologies),
		Featured:     r.Featured,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type ProjectStore struct {
	db *sqlx.DB
	tx *TransactionManager
}

func NewProjectStore(db *sqlx.DB) *ProjectStore {
	return &ProjectStore{db: db, tx: NewTransactionManager(db)}
}

func (s *ProjectStore) ListProjects(ctx context.Context, domainID string) ([]domain.Project, error) {
	if domainID == "" {
		return s.selectProjects(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY position`)
	}
	return s.selectProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE domain_id = $1 ORDER BY position`,
		domainID,
	)
}

func (s *ProjectStore) ListFeaturedProjects(ctx context.Context) ([]domain.Project, error) {
	return s.selectProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE featured ORDER BY position`,
	)
}

func (s *ProjectStore) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.get(ctx, id, false)
}

// CreateProject returns domain.ErrUnknownDomain when the referenced domain is gone.
func (s *ProjectStore) CreateProject(ctx context.Context, fields domain.NewProject) (*domain.Project, error) {
	p := fields.Build(uuid.NewString(), now())

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Content, p.DomainID, p.GithubURL, p.DemoURL,
		string(p.Status), toArray(p.Tags), toArray(p.Technologies), p.Featured,
		p.CreatedAt, p.UpdatedAt,
	)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrUnknownDomain
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	var updated *domain.Project
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.get(txCtx, id, true)
		if err != nil || p == nil {
			return err
		}
		patch.Apply(p, now())

		query := `
			UPDATE projects SET
				title = $2, description = $3, content = $4, domain_id = $5,
				github_url = $6, demo_url = $7, status = $8, tags = $9,
				technologies = $10, featured = $11, updated_at = $12
			WHERE id = $1`
		_, err = GetExecutor(txCtx, s.db).ExecContext(txCtx, query,
			p.ID, p.Title, p.Description, p.Content, p.DomainID, p.GithubURL, p.DemoURL,
			string(p.Status), toArray(p.Tags), toArray(p.Technologies), p.Featured,
			p.UpdatedAt,
		)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if isForeignKeyViolation(err) {
		return nil, domain.ErrUnknownDomain
	}
	return updated, err
}

func (s *ProjectStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *ProjectStore) selectProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	var rows []projectRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]domain.Project, len(rows))
	for i, r := range rows {
		out[i] = r.toProject()
	}
	return out, nil
}

func (s *ProjectStore) get(ctx context.Context, id string, forUpdate bool) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row projectRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := row.toProject()
	return &p, nil
}
