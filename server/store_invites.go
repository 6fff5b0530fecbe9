package main

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// inviteTTL is the validity window of a fresh invite.
const inviteTTL = 7 * 24 * time.Hour

const inviteCols = `id, board_id, email, token, invited_by, status, created_at, expires_at`

func scanInvite(row interface{ Scan(...any) error }, in *Invite) error {
	return row.Scan(&in.ID, &in.BoardID, &in.Email, &in.Token, &in.InvitedBy, &in.Status, &in.CreatedAt, &in.ExpiresAt)
}

func (s *Store) InvitesByBoard(ctx context.Context, boardID int64) ([]Invite, error) {
	rows, err := s.db.QueryContext(ctx, `select `+inviteCols+` from invites where board_id=$1 order by id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invite
	for rows.Next() {
		var in Invite
		if err := scanInvite(rows, &in); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// CreateInvite issues a pending invite with an unguessable token, valid for
// seven days from creation.
func (s *Store) CreateInvite(ctx context.Context, boardID int64, email string, invitedBy int64) (Invite, error) {
	if email == "" {
		return Invite{}, ErrValidation
	}
	token, err := newToken()
	if err != nil {
		return Invite{}, err
	}
	var in Invite
	err = scanInvite(s.db.QueryRowContext(ctx, `insert into invites(board_id, email, token, invited_by, expires_at)
		values($1,$2,$3,$4,$5) returning `+inviteCols,
		boardID, email, token, invitedBy, time.Now().Add(inviteTTL)), &in)
	if isFKViolation(err) {
		return Invite{}, ErrNotFound
	}
	return in, err
}

// AcceptInvite transitions a pending invite to accepted and enrolls the
// acting user as a board member, all in one transaction. An invite past its
// expiry is Expired regardless of the stored status; a timed-out pending
// invite is also marked expired so the terminal state sticks. Accepted and
// expired are terminal.
func (s *Store) AcceptInvite(ctx context.Context, token string, userID int64) (Invite, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Invite{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var in Invite
	err = scanInvite(tx.QueryRowContext(ctx, `select `+inviteCols+` from invites where token=$1 for update`, token), &in)
	if errors.Is(err, sql.ErrNoRows) {
		return Invite{}, ErrNotFound
	}
	if err != nil {
		return Invite{}, err
	}
	// past expiry the invite reads as expired no matter what is stored;
	// only a stored pending status is rewritten, terminal states stay put
	if in.Status == InviteExpired || time.Now().After(in.ExpiresAt) {
		if in.Status == InvitePending {
			if _, err := tx.ExecContext(ctx, `update invites set status='expired' where id=$1`, in.ID); err != nil {
				return Invite{}, err
			}
			if err := tx.Commit(); err != nil {
				return Invite{}, err
			}
		}
		return Invite{}, ErrExpired
	}
	if in.Status == InviteAccepted {
		return Invite{}, ErrConflict
	}

	if _, err = tx.ExecContext(ctx, `update invites set status='accepted' where id=$1`, in.ID); err != nil {
		return Invite{}, err
	}
	// enroll as member unless already on the board
	if _, err = tx.ExecContext(ctx, `insert into board_members(board_id, user_id, role) values($1,$2,'member')
		on conflict (board_id, user_id) do nothing`, in.BoardID, userID); err != nil {
		if isFKViolation(err) {
			return Invite{}, ErrNotFound
		}
		return Invite{}, err
	}
	if err = tx.Commit(); err != nil {
		return Invite{}, err
	}
	in.Status = InviteAccepted
	return in, nil
}
