package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday/football-news-api/internal/model"
)

// ErrNewsNotFound is returned when an article cannot be found.
var ErrNewsNotFound = errors.New("news not found")

// NewsFilter narrows a news listing.  Zero values mean "no filter".
type NewsFilter struct {
	Category string
	Breaking *bool
	AuthorID string
	Search   string // matches title or summary
}

// NewsRepo encapsulates queries against the `news` table.
type NewsRepo struct{ db *sql.DB }

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{db: db} }

const newsColumns = "id, author_id, title, slug, summary, content, category, image_url, is_breaking, is_published, published_at, view_count, created_at, updated_at"

func scanNews(scan func(dest ...any) error) (*model.News, error) {
	var (
		n           model.News
		summary     sql.NullString
		category    sql.NullString
		imageURL    sql.NullString
		publishedAt sql.NullTime
	)
	if err := scan(&n.ID, &n.AuthorID, &n.Title, &n.Slug, &summary, &n.Content, &category, &imageURL,
		&n.IsBreaking, &n.IsPublished, &publishedAt, &n.ViewCount, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Summary = summary.String
	n.Category = category.String
	n.ImageURL = imageURL.String
	if publishedAt.Valid {
		t := publishedAt.Time
		n.PublishedAt = &t
	}
	return &n, nil
}

// Create inserts an article and fills in the generated id and timestamps.
// Slug uniqueness violations surface as ErrConflict.
func (r *NewsRepo) Create(ctx context.Context, n *model.News) error {
	const q = `INSERT INTO news
		(author_id, title, slug, summary, content, category, image_url, is_breaking, is_published, published_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	var publishedAt sql.NullTime
	if n.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *n.PublishedAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q,
		n.AuthorID, n.Title, n.Slug, nullStr(n.Summary), n.Content, nullStr(n.Category), nullStr(n.ImageURL),
		n.IsBreaking, n.IsPublished, publishedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	created, err := r.GetByID(ctx, n.ID)
	if err != nil {
		return err
	}
	*n = *created
	return nil
}

// GetByID fetches an article by id regardless of publication state.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*model.News, error) {
	const q = "SELECT " + newsColumns + " FROM news WHERE id=?"
	n, err := scanNews(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

// GetBySlug fetches an article by slug regardless of publication state.
func (r *NewsRepo) GetBySlug(ctx context.Context, slug string) (*model.News, error) {
	const q = "SELECT " + newsColumns + " FROM news WHERE slug=?"
	n, err := scanNews(r.db.QueryRowContext(ctx, q, slug).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

// ListPublished returns a page of published articles, newest first, plus
// the total count.
func (r *NewsRepo) ListPublished(ctx context.Context, f NewsFilter, limit, offset int) ([]model.News, int, error) {
	where := "WHERE is_published=1"
	args := []any{}
	if f.Category != "" {
		where += " AND category=?"
		args = append(args, f.Category)
	}
	if f.Breaking != nil {
		where += " AND is_breaking=?"
		args = append(args, *f.Breaking)
	}
	if f.AuthorID != "" {
		where += " AND author_id=?"
		args = append(args, f.AuthorID)
	}
	if f.Search != "" {
		where += " AND (title LIKE ? OR summary LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + newsColumns + " FROM news " + where + " ORDER BY published_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		n, err := scanNews(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *n)
	}
	return items, total, rows.Err()
}

// ListBreaking returns the most recent published breaking articles.
func (r *NewsRepo) ListBreaking(ctx context.Context, limit int) ([]model.News, error) {
	const q = "SELECT " + newsColumns + " FROM news WHERE is_published=1 AND is_breaking=1 ORDER BY published_at DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		n, err := scanNews(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// Update persists the mutable fields of an article.
func (r *NewsRepo) Update(ctx context.Context, n *model.News) error {
	const q = `UPDATE news
		SET title=?, slug=?, summary=?, content=?, category=?, image_url=?, is_breaking=?, is_published=?, published_at=?
		WHERE id=?`
	var publishedAt sql.NullTime
	if n.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *n.PublishedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		n.Title, n.Slug, nullStr(n.Summary), n.Content, nullStr(n.Category), nullStr(n.ImageURL),
		n.IsBreaking, n.IsPublished, publishedAt, n.ID)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *NewsRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE news SET view_count=view_count+1 WHERE id=?", id)
	return err
}

// Delete removes an article and, via foreign keys, its comments.
func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNewsNotFound
	}
	return nil
}
