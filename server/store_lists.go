package main

import (
	"context"
	"database/sql"
	"errors"
)

const listCols = `id, board_id, title, position, created_at, updated_at`

func scanList(row interface{ Scan(...any) error }, l *List) error {
	return row.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt)
}

// ListsByBoard returns the board's lists ascending by position, ties broken
// by id so the order stays deterministic when positions collide.
func (s *Store) ListsByBoard(ctx context.Context, boardID int64) ([]List, error) {
	rows, err := s.db.QueryContext(ctx, `select `+listCols+` from lists where board_id=$1 order by position, id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []List
	for rows.Next() {
		var l List
		if err := scanList(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListsWithCards returns the board's ordered lists, each with its ordered cards.
func (s *Store) ListsWithCards(ctx context.Context, boardID int64) ([]List, error) {
	lists, err := s.ListsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		cards, err := s.CardsByList(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Cards = cards
	}
	return lists, nil
}

// CreateList inserts a list at the caller-supplied position. Positions are
// opaque sort keys: collisions and gaps are allowed and never rewritten.
func (s *Store) CreateList(ctx context.Context, boardID int64, title string, position int64) (List, error) {
	if title == "" {
		return List{}, ErrValidation
	}
	var l List
	err := scanList(s.db.QueryRowContext(ctx, `insert into lists(board_id, title, position) values($1,$2,$3) returning `+listCols,
		boardID, title, position), &l)
	if isFKViolation(err) {
		return List{}, ErrNotFound
	}
	return l, err
}

func (s *Store) GetList(ctx context.Context, id int64) (List, error) {
	var l List
	err := scanList(s.db.QueryRowContext(ctx, `select `+listCols+` from lists where id=$1`, id), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return List{}, ErrNotFound
	}
	return l, err
}

func (s *Store) UpdateList(ctx context.Context, id int64, title *string, position *int64) (List, error) {
	if title != nil && *title == "" {
		return List{}, ErrValidation
	}
	var l List
	err := scanList(s.db.QueryRowContext(ctx, `update lists set
			title = coalesce($2, title),
			position = coalesce($3, position),
			updated_at = now()
		where id=$1 returning `+listCols, id, title, position), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return List{}, ErrNotFound
	}
	return l, err
}

// DeleteList removes the list and, through the cascade, all its cards with
// their comments and assignees.
func (s *Store) DeleteList(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from lists where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
