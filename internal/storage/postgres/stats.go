package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"knowledge_hub/internal/domain"
)

type StatsStore struct {
	db *sqlx.DB
}

func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) Counts(ctx context.Context) (domain.Counts, error) {
	var row struct {
		Articles int `db:"articles"`
		Projects int `db:"projects"`
		Domains  int `db:"domains"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM articles) AS articles,
			(SELECT COUNT(*) FROM projects) AS projects,
			(SELECT COUNT(*) FROM domains)  AS domains`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query); err != nil {
		return domain.Counts{}, err
	}
	return domain.Counts{Articles: row.Articles, Projects: row.Projects, Domains: row.Domains}, nil
}
