package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"knowledge_hub/internal/domain"
)

const domainColumns = `id, name, description, icon, color, progress,
	articles_count, projects_count, created_at, updated_at`

type domainRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Icon          string    `db:"icon"`
	Color         string    `db:"color"`
	Progress      int       `db:"progress"`
	ArticlesCount int       `db:"articles_count"`
	ProjectsCount int       `db:"projects_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r domainRow) toDomain() domain.Domain {
	return domain.Domain{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Icon:          r.Icon,
		Color:         r.Color,
		Progress:      r.Progress,
		ArticlesCount: r.ArticlesCount,
		ProjectsCount: r.ProjectsCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type DomainStore struct {
	db *sqlx.DB
	tx *TransactionManager
}

func NewDomainStore(db *sqlx.DB) *DomainStore {
	return &DomainStore{db: db, tx: NewTransactionManager(db)}
}

// Seed inserts the catalog in order. Domains that already exist are left alone, so
// restarts keep user edits.
func (s *DomainStore) Seed(ctx context.Context, domains []domain.Domain) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, d := range domains {
			if err := s.insert(txCtx, d, true); err != nil {
				return fmt.Errorf("seed domain %s: %w", d.ID, err)
			}
		}
		return nil
	})
}

func (s *DomainStore) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	var rows []domainRow
	query := `SELECT ` + domainColumns + ` FROM domains ORDER BY position`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query); err != nil {
		return nil, err
	}

	out := make([]domain.Domain, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *DomainStore) GetDomain(ctx context.Context, id string) (*domain.Domain, error) {
	return s.get(ctx, id, false)
}

func (s *DomainStore) CreateDomain(ctx context.Context, fields domain.NewDomain) (*domain.Domain, error) {
	d := fields.Build(uuid.NewString(), now())
	if err := s.insert(ctx, d, false); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DomainStore) UpdateDomain(ctx context.Context, id string, patch domain.DomainPatch) (*domain.Domain, error) {
	var updated *domain.Domain
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		d, err := s.get(txCtx, id, true)
		if err != nil || d == nil {
			return err
		}
		patch.Apply(d, now())

		query := `
			UPDATE domains SET
				name = $2, description = $3, icon = $4, color = $5, progress = $6,
				articles_count = $7, projects_count = $8, updated_at = $9
			WHERE id = $1`
		_, err = GetExecutor(txCtx, s.db).ExecContext(txCtx, query,
			d.ID, d.Name, d.Description, d.Icon, d.Color, d.Progress,
			d.ArticlesCount, d.ProjectsCount, d.UpdatedAt,
		)
		if err != nil {
			return err
		}
		updated = d
		return nil
	})
	return updated, err
}

// DeleteDomain returns domain.ErrDomainInUse when articles or projects still
// reference id.
func (s *DomainStore) DeleteDomain(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return false, domain.ErrDomainInUse
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *DomainStore) get(ctx context.Context, id string, forUpdate bool) (*domain.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row domainRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := row.toDomain()
	return &d, nil
}

func (s *DomainStore) insert(ctx context.Context, d domain.Domain, skipExisting bool) error {
	query := `
		INSERT INTO domains (` + domainColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if skipExisting {
		query += ` ON CONFLICT (id) DO NOTHING`
	}

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		d.ID, d.Name, d.Description, d.Icon, d.Color, d.Progress,
		d.ArticlesCount, d.ProjectsCount, d.CreatedAt, d.UpdatedAt,
	)
	return err
}
