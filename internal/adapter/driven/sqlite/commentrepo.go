package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommentStore = (*CommentRepo)(nil)

const commentColumns = `id, path, line, body, priority, severity, outdated, created_at, updated_at,
	user, first_seen, thread_id, github_resolved, resolved_commit, waiting_reply,
	snoozed_reply_count, notes`

// CommentRepo is the SQLite implementation of the CommentStore port interface.
type CommentRepo struct {
	db *DB
}

// NewCommentRepo creates a new CommentRepo backed by the given DB.
func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Upsert inserts or updates a comment by its GitHub ID. The existence check
// and the write share one transaction so each row is all-or-nothing.
// first_seen, resolved_commit, waiting_reply, snoozed_reply_count and notes
// are deliberately absent from the UPDATE SET list.
func (r *CommentRepo) Upsert(ctx context.Context, c model.Comment, thread model.ThreadInfo, now time.Time) (bool, error) {
	const query = `
		INSERT INTO comments (
			id, path, line, body, priority, severity, outdated, created_at, updated_at,
			user, first_seen, thread_id, github_resolved
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			line = excluded.line,
			body = excluded.body,
			priority = excluded.priority,
			severity = excluded.severity,
			outdated = excluded.outdated,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			user = excluded.user,
			first_seen = COALESCE(comments.first_seen, excluded.first_seen),
			thread_id = excluded.thread_id,
			github_resolved = excluded.github_resolved
	`

	var line any
	if c.Line != nil {
		line = *c.Line
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert comment %d: %w", c.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM comments WHERE id = ?`, c.ID).Scan(&existing); err != nil {
		return false, fmt.Errorf("check comment %d: %w", c.ID, err)
	}

	_, err = tx.ExecContext(ctx, query,
		c.ID, c.Path, line, c.Body, string(c.Priority), string(c.Severity),
		boolToInt(thread.IsOutdated), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		c.User, formatTime(now), nullString(thread.ThreadID), boolToInt(thread.IsResolved),
	)
	if err != nil {
		return false, fmt.Errorf("upsert comment %d: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert comment %d: %w", c.ID, err)
	}

	return existing == 0, nil
}

// UpsertReply inserts or overwrites a reply by its GitHub ID.
func (r *CommentRepo) UpsertReply(ctx context.Context, reply model.Reply) error {
	const query = `
		INSERT INTO replies (id, in_reply_to_id, body, user, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			in_reply_to_id = excluded.in_reply_to_id,
			body = excluded.body,
			user = excluded.user,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		reply.ID, reply.InReplyToID, reply.Body, reply.User,
		formatTime(reply.CreatedAt), formatTime(reply.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert reply %d: %w", reply.ID, err)
	}

	return nil
}

// GetByID retrieves a single comment. Returns nil, nil if it does not exist.
func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ?`

	c, err := scanComment(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}

	return c, nil
}

// List returns comments matching the filter, ordered by path, line and id.
func (r *CommentRepo) List(ctx context.Context, f model.CommentFilter) ([]model.Comment, error) {
	var where []string
	var args []any

	switch {
	case f.OnlySnoozed:
		where = append(where, "waiting_reply = 1")
	case !f.IncludeSnoozed:
		where = append(where, "waiting_reply = 0")
	}
	if !f.IncludeResolved {
		where = append(where, "github_resolved = 0")
	}
	if f.OutdatedOnly {
		where = append(where, "outdated = 1")
	}
	if f.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(f.Priority))
	}
	if f.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, string(f.Severity))
	}
	if f.Path != "" {
		if f.ExactPath {
			where = append(where, "path = ?")
			args = append(args, f.Path)
		} else {
			where = append(where, `path LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(f.Path)+"%")
		}
	}

	query := `SELECT ` + commentColumns + ` FROM comments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY path, line, id`

	return r.queryComments(ctx, query, args...)
}

// Search matches text against body and path. SQLite's LIKE folds ASCII
// only, so rows are filtered with Unicode case folding in Go.
func (r *CommentRepo) Search(ctx context.Context, text string) ([]model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY path, line, id`

	all, err := r.queryComments(ctx, query)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(text)
	var matched []model.Comment
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Body), needle) || strings.Contains(strings.ToLower(c.Path), needle) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// ListSnoozed returns every comment waiting for a reply.
func (r *CommentRepo) ListSnoozed(ctx context.Context) ([]model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE waiting_reply = 1 ORDER BY id`
	return r.queryComments(ctx, query)
}

// ListOutdatedPending returns outdated comments not yet resolved on GitHub.
func (r *CommentRepo) ListOutdatedPending(ctx context.Context) ([]model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE outdated = 1 AND github_resolved = 0
		ORDER BY path, id`
	return r.queryComments(ctx, query)
}

// RepliesFor returns the replies to a comment, ordered by created_at.
func (r *CommentRepo) RepliesFor(ctx context.Context, commentID int64) ([]model.Reply, error) {
	const query = `
		SELECT id, in_reply_to_id, body, user, created_at, updated_at
		FROM replies
		WHERE in_reply_to_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, commentID)
	if err != nil {
		return nil, fmt.Errorf("query replies for comment %d: %w", commentID, err)
	}
	defer rows.Close()

	var replies []model.Reply
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		replies = append(replies, *reply)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replies: %w", err)
	}

	return replies, nil
}

// ReplyCount returns the number of stored replies to a comment.
func (r *CommentRepo) ReplyCount(ctx context.Context, commentID int64) (int, error) {
	var n int
	err := r.db.Reader.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM replies WHERE in_reply_to_id = ?`, commentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count replies for comment %d: %w", commentID, err)
	}
	return n, nil
}

// Stats aggregates counts across all stored comments.
func (r *CommentRepo) Stats(ctx context.Context) (model.CommentStats, error) {
	const totals = `
		SELECT
			COUNT(1),
			COALESCE(SUM(CASE WHEN github_resolved = 0 AND waiting_reply = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(github_resolved), 0),
			COALESCE(SUM(waiting_reply), 0),
			COALESCE(SUM(CASE WHEN outdated = 1 AND github_resolved = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN thread_id IS NULL THEN 1 ELSE 0 END), 0)
		FROM comments
	`

	stats := model.CommentStats{
		ByPriority: make(map[model.Priority]int),
		BySeverity: make(map[model.Severity]int),
	}

	err := r.db.Reader.QueryRowContext(ctx, totals).Scan(
		&stats.Total, &stats.Pending, &stats.Resolved,
		&stats.Snoozed, &stats.Outdated, &stats.NoThread,
	)
	if err != nil {
		return stats, fmt.Errorf("query comment totals: %w", err)
	}

	err = r.countBy(ctx, "priority", func(key string, n int) {
		stats.ByPriority[model.Priority(key)] = n
	})
	if err != nil {
		return stats, err
	}

	err = r.countBy(ctx, "severity", func(key string, n int) {
		stats.BySeverity[model.Severity(key)] = n
	})
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// countBy groups pending comments by column. column is always a constant.
func (r *CommentRepo) countBy(ctx context.Context, column string, fn func(string, int)) error {
	query := `SELECT ` + column + `, COUNT(1) FROM comments
		WHERE github_resolved = 0 AND waiting_reply = 0
		GROUP BY ` + column

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("count comments by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		fn(key, n)
	}

	return rows.Err()
}

// AppendNote adds a timestamped entry to the comment's notes log.
func (r *CommentRepo) AppendNote(ctx context.Context, id int64, note string, now time.Time) error {
	const query = `
		UPDATE comments
		SET notes = CASE WHEN notes = '' THEN ? ELSE notes || char(10) || ? END
		WHERE id = ?
	`

	entry := fmt.Sprintf("[%s] %s", now.Local().Format("2006-01-02 15:04"), note)
	return r.execSingle(ctx, "append note", id, query, entry, entry, id)
}

// ClearThreadID drops a thread reference GitHub no longer recognizes.
func (r *CommentRepo) ClearThreadID(ctx context.Context, id int64) error {
	return r.execSingle(ctx, "clear thread id", id,
		`UPDATE comments SET thread_id = NULL WHERE id = ?`, id)
}

// SetResolvedCommit records which local commit addressed the comment.
func (r *CommentRepo) SetResolvedCommit(ctx context.Context, id int64, commit string) error {
	return r.execSingle(ctx, "set resolved commit", id,
		`UPDATE comments SET resolved_commit = ? WHERE id = ?`, commit, id)
}

// SetGitHubResolved mirrors a thread state returned by a mutation.
func (r *CommentRepo) SetGitHubResolved(ctx context.Context, id int64, resolved bool) error {
	return r.execSingle(ctx, "set github resolved", id,
		`UPDATE comments SET github_resolved = ? WHERE id = ?`, boolToInt(resolved), id)
}

// SetSnooze toggles waiting_reply and records the reply count snapshot.
func (r *CommentRepo) SetSnooze(ctx context.Context, id int64, waiting bool, replyCount int) error {
	return r.execSingle(ctx, "set snooze", id,
		`UPDATE comments SET waiting_reply = ?, snoozed_reply_count = ? WHERE id = ?`,
		boolToInt(waiting), replyCount, id)
}

func (r *CommentRepo) execSingle(ctx context.Context, op string, id int64, query string, args ...any) error {
	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s on comment %d: %w", op, id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%s on comment %d: %w", op, id, driven.ErrCommentNotFound)
	}

	return nil
}

func (r *CommentRepo) queryComments(ctx context.Context, query string, args ...any) ([]model.Comment, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func scanComment(s scanner) (*model.Comment, error) {
	var c model.Comment
	var line sql.NullInt64
	var threadID sql.NullString
	var priority, severity string
	var outdated, resolved, waiting int
	var createdAt, updatedAt, firstSeen string

	err := s.Scan(
		&c.ID, &c.Path, &line, &c.Body, &priority, &severity, &outdated,
		&createdAt, &updatedAt, &c.User, &firstSeen, &threadID, &resolved,
		&c.ResolvedCommit, &waiting, &c.SnoozedReplyCount, &c.Notes,
	)
	if err != nil {
		return nil, err
	}

	if line.Valid {
		l := int(line.Int64)
		c.Line = &l
	}
	c.ThreadID = threadID.String
	c.Priority = model.Priority(priority)
	c.Severity = model.Severity(severity)
	c.Outdated = outdated != 0
	c.GitHubResolved = resolved != 0
	c.WaitingReply = waiting != 0

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	c.FirstSeen, err = parseTime(firstSeen)
	if err != nil {
		return nil, fmt.Errorf("parse first_seen: %w", err)
	}

	return &c, nil
}

func scanReply(s scanner) (*model.Reply, error) {
	var reply model.Reply
	var createdAt, updatedAt string

	err := s.Scan(&reply.ID, &reply.InReplyToID, &reply.Body, &reply.User, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	reply.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	reply.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &reply, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
