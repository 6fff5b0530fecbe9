package main

import (
	"context"
	"database/sql"
	"errors"
)

const boardCols = `id, title, description, background_color, owner_id, created_at, updated_at`

func scanBoard(row interface{ Scan(...any) error }, b *Board) error {
	return row.Scan(&b.ID, &b.Title, &b.Description, &b.BackgroundColor, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
}

// BoardsForUser returns boards the user owns or is a member of.
func (s *Store) BoardsForUser(ctx context.Context, userID int64) ([]Board, error) {
	rows, err := s.db.QueryContext(ctx, `select distinct b.id, b.title, b.description, b.background_color, b.owner_id, b.created_at, b.updated_at
		from boards b left join board_members m on m.board_id = b.id
		where b.owner_id=$1 or m.user_id=$1
		order by b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Board
	for rows.Next() {
		var b Board
		if err := scanBoard(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type BoardAttrs struct {
	Title           string
	Description     string
	BackgroundColor string
}

// CreateBoard inserts the board together with its owner membership row in a
// single transaction, so no reader ever sees a board without an owner member.
func (s *Store) CreateBoard(ctx context.Context, ownerID int64, attrs BoardAttrs) (Board, error) {
	if attrs.Title == "" {
		return Board{}, ErrValidation
	}
	if attrs.BackgroundColor == "" {
		attrs.BackgroundColor = "#0079bf"
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Board{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var b Board
	err = scanBoard(tx.QueryRowContext(ctx, `insert into boards(title, description, background_color, owner_id)
		values($1,$2,$3,$4) returning `+boardCols,
		attrs.Title, attrs.Description, attrs.BackgroundColor, ownerID), &b)
	if isFKViolation(err) {
		return Board{}, ErrNotFound
	}
	if err != nil {
		return Board{}, err
	}
	if _, err = tx.ExecContext(ctx, `insert into board_members(board_id, user_id, role) values($1,$2,'owner')`, b.ID, ownerID); err != nil {
		return Board{}, err
	}
	if err = tx.Commit(); err != nil {
		return Board{}, err
	}
	return b, nil
}

func (s *Store) GetBoard(ctx context.Context, id int64) (Board, error) {
	var b Board
	err := scanBoard(s.db.QueryRowContext(ctx, `select `+boardCols+` from boards where id=$1`, id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	return b, err
}

// GetBoardDetail returns the board with its membership rows and their users.
func (s *Store) GetBoardDetail(ctx context.Context, id int64) (BoardDetail, error) {
	b, err := s.GetBoard(ctx, id)
	if err != nil {
		return BoardDetail{}, err
	}
	members, err := s.ListMembers(ctx, id)
	if err != nil {
		return BoardDetail{}, err
	}
	return BoardDetail{Board: b, Members: members}, nil
}

func (s *Store) UpdateBoard(ctx context.Context, id int64, title, description, backgroundColor *string) (Board, error) {
	if title != nil && *title == "" {
		return Board{}, ErrValidation
	}
	var b Board
	err := scanBoard(s.db.QueryRowContext(ctx, `update boards set
			title = coalesce($2, title),
			description = coalesce($3, description),
			background_color = coalesce($4, background_color),
			updated_at = now()
		where id=$1 returning `+boardCols, id, title, description, backgroundColor), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	return b, err
}

// DeleteBoard removes the board; lists, cards, comments, assignees, members
// and invites go with it through the cascading foreign keys, in one statement.
func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from boards where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListMembers(ctx context.Context, boardID int64) ([]BoardMember, error) {
	rows, err := s.db.QueryContext(ctx, `select m.id, m.board_id, m.user_id, m.role, m.joined_at,
			u.id, u.email, u.username, coalesce(u.full_name,''), coalesce(u.avatar_url,''), u.created_at, u.updated_at
		from board_members m join users u on u.id = m.user_id
		where m.board_id=$1 order by m.id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BoardMember
	for rows.Next() {
		var m BoardMember
		var u User
		if err := rows.Scan(&m.ID, &m.BoardID, &m.UserID, &m.Role, &m.JoinedAt,
			&u.ID, &u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		m.User = &u
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMember adds a user to a board with role member. A second row for the
// same (board, user) pair is a conflict.
func (s *Store) AddMember(ctx context.Context, boardID, userID int64) (BoardMember, error) {
	var m BoardMember
	err := s.db.QueryRowContext(ctx, `insert into board_members(board_id, user_id, role) values($1,$2,'member')
		returning id, board_id, user_id, role, joined_at`, boardID, userID).
		Scan(&m.ID, &m.BoardID, &m.UserID, &m.Role, &m.JoinedAt)
	if isUniqueViolation(err) {
		return BoardMember{}, ErrConflict
	}
	if isFKViolation(err) {
		return BoardMember{}, ErrNotFound
	}
	return m, err
}

// RemoveMember deletes the membership row scoped to the board. The owner row
// cannot be removed; a board must keep exactly one owner.
func (s *Store) RemoveMember(ctx context.Context, boardID, memberID int64) error {
	var role Role
	err := s.db.QueryRowContext(ctx, `select role from board_members where id=$1 and board_id=$2`, memberID, boardID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if role == RoleOwner {
		return ErrConflict
	}
	res, err := s.db.ExecContext(ctx, `delete from board_members where id=$1 and board_id=$2`, memberID, boardID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
