package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound indicates the requested queue item does not exist.
var ErrNotFound = errors.New("queue item not found")

const itemColumns = "id, source_path, title, fingerprint, task, language, status, error_message, subtitle_file, transcript_file, rendered_file, audio_file, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id             int64
		sourcePath     sql.NullString
		title          sql.NullString
		fingerprint    sql.NullString
		taskStr        string
		languageStr    string
		statusStr      string
		errorMessage   sql.NullString
		subtitleFile   sql.NullString
		transcriptFile sql.NullString
		renderedFile   sql.NullString
		audioFile      sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&title,
		&fingerprint,
		&taskStr,
		&languageStr,
		&statusStr,
		&errorMessage,
		&subtitleFile,
		&transcriptFile,
		&renderedFile,
		&audioFile,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:             id,
		SourcePath:     sourcePath.String,
		Title:          title.String,
		Fingerprint:    fingerprint.String,
		Task:           Task(taskStr),
		Language:       languageStr,
		Status:         Status(statusStr),
		ErrorMessage:   errorMessage.String,
		SubtitleFile:   subtitleFile.String,
		TranscriptFile: transcriptFile.String,
		RenderedFile:   renderedFile.String,
		AudioFile:      audioFile.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

// NewFile inserts a pending item for a source video.
func (s *Store) NewFile(ctx context.Context, sourcePath, title string, task Task, language string) (*Item, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`INSERT INTO queue_items (source_path, title, task, language, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sourcePath, nullableString(title), string(task), language, string(StatusPending), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert queue item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID loads a single item.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM queue_items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load queue item %d: %w", id, err)
	}
	return item, nil
}

// FindByFingerprint returns the most recent item with the given content
// fingerprint, or nil when none exists.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*Item, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM queue_items WHERE fingerprint = ? ORDER BY id DESC LIMIT 1",
		fingerprint)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by fingerprint: %w", err)
	}
	return item, nil
}

// Update persists every mutable field of the item and refreshes updated_at.
func (s *Store) Update(ctx context.Context, item *Item) error {
	ctx = ensureContext(ctx)
	if item == nil || item.ID == 0 {
		return errors.New("update queue item: item with id required")
	}
	if _, ok := statusSet[item.Status]; !ok {
		return fmt.Errorf("update queue item: unknown status %q", item.Status)
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(ctx,
		`UPDATE queue_items SET
			source_path = ?, title = ?, fingerprint = ?, task = ?, language = ?,
			status = ?, error_message = ?, subtitle_file = ?, transcript_file = ?,
			rendered_file = ?, audio_file = ?, updated_at = ?
		 WHERE id = ?`,
		item.SourcePath,
		nullableString(item.Title),
		nullableString(item.Fingerprint),
		string(item.Task),
		item.Language,
		string(item.Status),
		nullableString(item.ErrorMessage),
		nullableString(item.SubtitleFile),
		nullableString(item.TranscriptFile),
		nullableString(item.RenderedFile),
		nullableString(item.AudioFile),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update queue item %d: %w", item.ID, err)
	}
	return nil
}

// List returns items filtered to the given statuses, oldest first. With no
// statuses every item is returned.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + itemColumns + " FROM queue_items"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += " WHERE status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextForStatuses returns the oldest item in any of the given statuses, or
// nil when the queue has none.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	ctx = ensureContext(ctx)
	if len(statuses) == 0 {
		statuses = []Status{StatusPending}
	}
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, string(status))
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM queue_items WHERE status IN ("+makePlaceholders(len(statuses))+") ORDER BY id ASC LIMIT 1",
		args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next queue item: %w", err)
	}
	return item, nil
}

// RetryFailed moves every failed item back to pending and clears its error.
// It returns the number of items reset.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx,
		"UPDATE queue_items SET status = ?, error_message = NULL, updated_at = ? WHERE status = ?",
		string(StatusPending), time.Now().UTC().Format(time.RFC3339Nano), string(StatusFailed))
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	return res.RowsAffected()
}

// RecoverStale rolls items stranded mid-stage by a crashed run back to the
// preceding stable status. It returns the number of items moved.
func (s *Store) RecoverStale(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var total int64
	for _, transition := range stageRollbackTransitions {
		res, err := s.execWithRetry(ctx,
			"UPDATE queue_items SET status = ?, updated_at = ? WHERE status = ?",
			string(transition.to), time.Now().UTC().Format(time.RFC3339Nano), string(transition.from))
		if err != nil {
			return total, fmt.Errorf("recover %s items: %w", transition.from, err)
		}
		moved, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += moved
	}
	return total, nil
}

// Clear removes items. With completedOnly it deletes only completed items,
// otherwise everything goes. It returns the number of rows removed.
func (s *Store) Clear(ctx context.Context, completedOnly bool) (int64, error) {
	ctx = ensureContext(ctx)
	query := "DELETE FROM queue_items"
	args := []any{}
	if completedOnly {
		query += " WHERE status = ?"
		args = append(args, string(StatusCompleted))
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// Health aggregates queue counts by lifecycle state.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	ctx = ensureContext(ctx)
	var summary HealthSummary
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(1) FROM queue_items GROUP BY status")
	if err != nil {
		return summary, fmt.Errorf("queue health: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var statusStr string
		var count int
		if err := rows.Scan(&statusStr, &count); err != nil {
			return summary, fmt.Errorf("queue health scan: %w", err)
		}
		summary.Total += count
		switch Status(statusStr) {
		case StatusPending:
			summary.Pending += count
		case StatusFailed:
			summary.Failed += count
		case StatusCompleted:
			summary.Completed += count
		default:
			if _, ok := processingStatuses[Status(statusStr)]; ok {
				summary.Processing += count
			}
		}
	}
	return summary, rows.Err()
}

// StatusLabel renders a status for table output.
func StatusLabel(status Status) string {
	return strings.ReplaceAll(string(status), "_", " ")
}
