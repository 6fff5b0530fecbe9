package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const cardCols = `id, list_id, title, description, position, due_date, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }, c *Card) error {
	return row.Scan(&c.ID, &c.ListID, &c.Title, &c.Description, &c.Position, &c.DueDate, &c.CreatedAt, &c.UpdatedAt)
}

// CardsByList returns the list's cards ascending by position, ties by id.
func (s *Store) CardsByList(ctx context.Context, listID int64) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx, `select `+cardCols+` from cards where list_id=$1 order by position, id`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Card
	for rows.Next() {
		var c Card
		if err := scanCard(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCard(ctx context.Context, listID int64, title, description string, position int64, dueDate *time.Time) (Card, error) {
	if title == "" {
		return Card{}, ErrValidation
	}
	var c Card
	err := scanCard(s.db.QueryRowContext(ctx, `insert into cards(list_id, title, description, position, due_date)
		values($1,$2,$3,$4,$5) returning `+cardCols, listID, title, description, position, dueDate), &c)
	if isFKViolation(err) {
		return Card{}, ErrNotFound
	}
	return c, err
}

func (s *Store) GetCard(ctx context.Context, id int64) (Card, error) {
	var c Card
	err := scanCard(s.db.QueryRowContext(ctx, `select `+cardCols+` from cards where id=$1`, id), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrNotFound
	}
	return c, err
}

// GetCardDetail returns the card with its assignees and comments, users embedded.
func (s *Store) GetCardDetail(ctx context.Context, id int64) (CardDetail, error) {
	c, err := s.GetCard(ctx, id)
	if err != nil {
		return CardDetail{}, err
	}
	assignees, err := s.AssigneesByCard(ctx, id)
	if err != nil {
		return CardDetail{}, err
	}
	comments, err := s.CommentsByCard(ctx, id)
	if err != nil {
		return CardDetail{}, err
	}
	return CardDetail{Card: c, Assignees: assignees, Comments: comments}, nil
}

// CardUpdate carries the partial update; nil fields are left untouched.
// ListID moves the card across lists; its position is then read against the
// new sibling set.
type CardUpdate struct {
	Title       *string
	Description *string
	Position    *int64
	ListID      *int64
	DueDate     *time.Time
}

func (s *Store) UpdateCard(ctx context.Context, id int64, upd CardUpdate) (Card, error) {
	if upd.Title != nil && *upd.Title == "" {
		return Card{}, ErrValidation
	}
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Position != nil {
		add("position", *upd.Position)
	}
	if upd.ListID != nil {
		add("list_id", *upd.ListID)
	}
	if upd.DueDate != nil {
		add("due_date", *upd.DueDate)
	}
	if len(set) == 0 {
		return s.GetCard(ctx, id)
	}
	set = append(set, "updated_at=now()")
	q := fmt.Sprintf("update cards set %s where id=$%d returning %s", strings.Join(set, ", "), idx, cardCols)
	args = append(args, id)
	var c Card
	err := scanCard(s.db.QueryRowContext(ctx, q, args...), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrNotFound
	}
	// moving to a list that does not exist trips the FK
	if isFKViolation(err) {
		return Card{}, ErrNotFound
	}
	return c, err
}

// DeleteCard removes the card and cascades to its comments and assignees.
func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from cards where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
