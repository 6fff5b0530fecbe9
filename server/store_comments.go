package main

import "context"

func (s *Store) CommentsByCard(ctx context.Context, cardID int64) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `select c.id, c.card_id, c.user_id, c.content, c.created_at, c.updated_at,
			u.id, u.email, u.username, coalesce(u.full_name,''), coalesce(u.avatar_url,''), u.created_at, u.updated_at
		from comments c join users u on u.id = c.user_id
		where c.card_id=$1 order by c.id`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Comment
	for rows.Next() {
		var c Comment
		var u User
		if err := rows.Scan(&c.ID, &c.CardID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		c.User = &u
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddComment records the author at creation time; authorship never changes.
func (s *Store) AddComment(ctx context.Context, cardID, authorID int64, content string) (Comment, error) {
	if content == "" {
		return Comment{}, ErrValidation
	}
	var c Comment
	err := s.db.QueryRowContext(ctx, `insert into comments(card_id, user_id, content) values($1,$2,$3)
		returning id, card_id, user_id, content, created_at, updated_at`, cardID, authorID, content).
		Scan(&c.ID, &c.CardID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if isFKViolation(err) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from comments where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AssigneesByCard(ctx context.Context, cardID int64) ([]CardAssignee, error) {
	rows, err := s.db.QueryContext(ctx, `select a.id, a.card_id, a.user_id, a.assigned_at,
			u.id, u.email, u.username, coalesce(u.full_name,''), coalesce(u.avatar_url,''), u.created_at, u.updated_at
		from card_assignees a join users u on u.id = a.user_id
		where a.card_id=$1 order by a.id`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CardAssignee
	for rows.Next() {
		var a CardAssignee
		var u User
		if err := rows.Scan(&a.ID, &a.CardID, &a.UserID, &a.AssignedAt,
			&u.ID, &u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		a.User = &u
		out = append(out, a)
	}
	return out, rows.Err()
}

// Assign adds the user to the card. Assigning the same user twice is a
// conflict, backed by the (card_id, user_id) unique constraint.
func (s *Store) Assign(ctx context.Context, cardID, userID int64) (CardAssignee, error) {
	var a CardAssignee
	err := s.db.QueryRowContext(ctx, `insert into card_assignees(card_id, user_id) values($1,$2)
		returning id, card_id, user_id, assigned_at`, cardID, userID).
		Scan(&a.ID, &a.CardID, &a.UserID, &a.AssignedAt)
	if isUniqueViolation(err) {
		return CardAssignee{}, ErrConflict
	}
	if isFKViolation(err) {
		return CardAssignee{}, ErrNotFound
	}
	return a, err
}

// Unassign deletes the assignment row scoped to the card.
func (s *Store) Unassign(ctx context.Context, cardID, assigneeID int64) error {
	res, err := s.db.ExecContext(ctx, `delete from card_assignees where id=$1 and card_id=$2`, assigneeID, cardID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
