package catalog

import "time"

type Category struct {
	ID         int       `db:"id" json:"id"`
	Slug       string    `db:"slug" json:"slug"`
	TitleRu    string    `db:"title_ru" json:"title_ru"`
	TitleEn    string    `db:"title_en" json:"title_en"`
	Emoji      string    `db:"emoji" json:"emoji"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	VideoCount int       `db:"video_count" json:"video_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Video struct {
	ID              int       `db:"id" json:"id"`
	CategoryID      int       `db:"category_id" json:"category_id"`
	Slug            string    `db:"slug" json:"slug"`
	TitleRu         string    `db:"title_ru" json:"title_ru"`
	TitleEn         string    `db:"title_en" json:"title_en"`
	YoutubeURL      string    `db:"youtube_url" json:"youtube_url"`
	ThumbnailURL    string    `db:"thumbnail_url" json:"thumbnail_url"`
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
	Featured        bool      `db:"featured" json:"featured"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
