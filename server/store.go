package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const userCols = `id, email, username, coalesce(full_name,''), coalesce(avatar_url,''), created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *User) error {
	return row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
}

func (s *Store) CreateUser(ctx context.Context, email, username, passwordHash, fullName string) (User, error) {
	var u User
	err := scanUser(s.db.QueryRowContext(ctx, `insert into users(email, username, password_hash, full_name) values($1,$2,$3,nullif($4,''))
		returning `+userCols, email, username, passwordHash, fullName), &u)
	if isUniqueViolation(err) {
		return User{}, ErrConflict
	}
	return u, err
}

func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := scanUser(s.db.QueryRowContext(ctx, `select `+userCols+` from users where id=$1`, id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := scanUser(s.db.QueryRowContext(ctx, `select `+userCols+` from users where lower(email)=lower($1)`, email), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// UpdateProfile mutates the profile fields only; identity (email, username)
// is immutable once created.
func (s *Store) UpdateProfile(ctx context.Context, id int64, fullName, avatarURL *string) (User, error) {
	var u User
	err := scanUser(s.db.QueryRowContext(ctx, `update users set
			full_name = coalesce($2, full_name),
			avatar_url = coalesce($3, avatar_url),
			updated_at = now()
		where id=$1 returning `+userCols, id, fullName, avatarURL), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Authenticate verifies the password for email and returns the user.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	var hash string
	err := s.db.QueryRowContext(ctx, `select `+userCols+`, password_hash from users where lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

// newToken returns 32 random bytes, base64 URL encoded.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *Store) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, time.Time, error) {
	token, err := newToken()
	if err != nil {
		return "", time.Time{}, err
	}
	expires := time.Now().Add(ttl)
	if _, err := s.db.ExecContext(ctx, `insert into sessions(user_id, token, expires_at) values($1,$2,$3)`, userID, token, expires); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *Store) UserBySession(ctx context.Context, token string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select u.id, u.email, u.username, coalesce(u.full_name,''), coalesce(u.avatar_url,''), u.created_at, u.updated_at
		from sessions s join users u on u.id=s.user_id
		where s.token=$1 and s.expires_at > now()`, token).
		Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token=$1`, token)
	return err
}

const schema = `
create table if not exists users(
	id bigserial primary key,
	email text unique not null check (length(email) > 0),
	username text unique not null check (length(username) > 0),
	password_hash text not null,
	full_name text,
	avatar_url text,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);

create table if not exists sessions(
	id bigserial primary key,
	user_id bigint not null references users(id) on delete cascade,
	token text unique not null,
	created_at timestamptz not null default now(),
	expires_at timestamptz not null
);

create table if not exists boards(
	id bigserial primary key,
	title text not null check (length(title) > 0),
	description text not null default '',
	background_color text not null default '#0079bf',
	owner_id bigint not null references users(id),
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);
create index if not exists boards_owner_idx on boards(owner_id);

create table if not exists board_members(
	id bigserial primary key,
	board_id bigint not null references boards(id) on delete cascade,
	user_id bigint not null references users(id),
	role text not null default 'member' check (role in ('owner','member')),
	joined_at timestamptz not null default now(),
	unique(board_id, user_id)
);
create index if not exists board_members_user_idx on board_members(user_id);

create table if not exists lists(
	id bigserial primary key,
	board_id bigint not null references boards(id) on delete cascade,
	title text not null check (length(title) > 0),
	position bigint not null,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);
create index if not exists lists_board_pos_idx on lists(board_id, position, id);

create table if not exists cards(
	id bigserial primary key,
	list_id bigint not null references lists(id) on delete cascade,
	title text not null check (length(title) > 0),
	description text not null default '',
	position bigint not null,
	due_date timestamptz,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);
create index if not exists cards_list_pos_idx on cards(list_id, position, id);

create table if not exists comments(
	id bigserial primary key,
	card_id bigint not null references cards(id) on delete cascade,
	user_id bigint not null references users(id),
	content text not null check (length(content) > 0),
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);
create index if not exists comments_card_idx on comments(card_id);

create table if not exists card_assignees(
	id bigserial primary key,
	card_id bigint not null references cards(id) on delete cascade,
	user_id bigint not null references users(id),
	assigned_at timestamptz not null default now(),
	unique(card_id, user_id)
);

create table if not exists invites(
	id bigserial primary key,
	board_id bigint not null references boards(id) on delete cascade,
	email text not null check (length(email) > 0),
	token text unique not null,
	invited_by bigint not null references users(id),
	status text not null default 'pending' check (status in ('pending','accepted','expired')),
	created_at timestamptz not null default now(),
	expires_at timestamptz not null
);
create index if not exists invites_board_idx on invites(board_id);
`
