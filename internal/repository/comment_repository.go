package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday/football-news-api/internal/model"
)

// ErrCommentNotFound is returned when a comment cannot be found.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepo encapsulates queries against the `comments` table.  Deletion
// is soft (is_deleted flag) so reply threads keep their shape.
type CommentRepo struct{ db *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

const commentColumns = "id, news_id, user_id, parent_id, content, is_edited, is_deleted, created_at, updated_at"

func scanComment(scan func(dest ...any) error) (*model.Comment, error) {
	var (
		c        model.Comment
		parentID sql.NullInt64
	)
	if err := scan(&c.ID, &c.NewsID, &c.UserID, &parentID, &c.Content, &c.IsEdited, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		p := uint64(parentID.Int64)
		c.ParentID = &p
	}
	return &c, nil
}

// Create inserts a comment and fills in the generated id and timestamps.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	const q = "INSERT INTO comments (news_id, user_id, parent_id, content) VALUES (?,?,?,?)"
	var parentID sql.NullInt64
	if c.ParentID != nil {
		parentID = sql.NullInt64{Int64: int64(*c.ParentID), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, c.NewsID, c.UserID, parentID, c.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	created, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// GetByID fetches a comment by id, deleted or not.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	const q = "SELECT " + commentColumns + " FROM comments WHERE id=?"
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByNews returns a page of top-level comments for an article, newest
// first, plus the total count.
func (r *CommentRepo) ListByNews(ctx context.Context, newsID uint64, limit, offset int) ([]model.Comment, int, error) {
	const where = "WHERE news_id=? AND parent_id IS NULL AND is_deleted=0"
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments "+where, newsID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = "SELECT " + commentColumns + " FROM comments " + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, newsID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

// ListReplies returns a page of replies to a comment, oldest first, plus
// the total count.
func (r *CommentRepo) ListReplies(ctx context.Context, parentID uint64, limit, offset int) ([]model.Comment, int, error) {
	const where = "WHERE parent_id=? AND is_deleted=0"
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments "+where, parentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = "SELECT " + commentColumns + " FROM comments " + where + " ORDER BY created_at ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, parentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

// UpdateContent edits a comment in place and marks it edited.
func (r *CommentRepo) UpdateContent(ctx context.Context, id uint64, content string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE comments SET content=?, is_edited=1 WHERE id=?", content, id)
	return err
}

// SoftDelete flags a comment as deleted without removing the row.  Running
// it twice is harmless.
func (r *CommentRepo) SoftDelete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE comments SET is_deleted=1 WHERE id=?", id)
	return err
}
