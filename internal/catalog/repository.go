package catalog

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	err := r.db.SelectContext(ctx, &categories, `
		SELECT c.id, c.slug, c.title_ru, c.title_en, c.emoji, c.sort_order, c.created_at,
		       COUNT(v.id) AS video_count
		FROM categories c
		LEFT JOIN videos v ON v.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.created_at
	`)
	return categories, err
}

func (r *Repository) ListFeaturedVideos(ctx context.Context, limit int) ([]Video, error) {
	videos := []Video{}
	err := r.db.SelectContext(ctx, &videos, `
		SELECT id, category_id, slug, title_ru, title_en, youtube_url,
		       thumbnail_url, duration_seconds, featured, created_at
		FROM videos
		WHERE featured = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return videos, err
}
