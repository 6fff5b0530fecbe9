package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddCommentUnknownCard(t *testing.T) {
	s := testStore(t)
	u := mkUser(t, s)
	_, err := s.AddComment(context.Background(), 99999, u.ID, "hello")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommentAuthorRecorded(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	author := mkUser(t, s)
	b := mkBoard(t, s, author.ID)
	l, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, l.ID, "C1", "", 0, nil)
	require.NoError(t, err)

	cm, err := s.AddComment(ctx, c.ID, author.ID, "first!")
	require.NoError(t, err)
	require.Equal(t, author.ID, cm.UserID)

	items, err := s.CommentsByCard(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "first!", items[0].Content)
	require.Equal(t, author.ID, items[0].User.ID)

	require.NoError(t, s.DeleteComment(ctx, cm.ID))
	require.ErrorIs(t, s.DeleteComment(ctx, cm.ID), ErrNotFound)
}

func TestAssignDuplicateConflict(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)
	l, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, l.ID, "C1", "", 0, nil)
	require.NoError(t, err)

	a, err := s.Assign(ctx, c.ID, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, a.UserID)

	_, err = s.Assign(ctx, c.ID, u.ID)
	require.ErrorIs(t, err, ErrConflict)

	assignees, err := s.AssigneesByCard(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, assignees, 1)
}

func TestUnassignScopedToCard(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)
	l, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, l.ID, "C1", "", 0, nil)
	require.NoError(t, err)
	a, err := s.Assign(ctx, c.ID, u.ID)
	require.NoError(t, err)

	require.ErrorIs(t, s.Unassign(ctx, c.ID+1, a.ID), ErrNotFound)
	require.NoError(t, s.Unassign(ctx, c.ID, a.ID))
	require.ErrorIs(t, s.Unassign(ctx, c.ID, a.ID), ErrNotFound)
}

func TestAssignUnknownCard(t *testing.T) {
	s := testStore(t)
	u := mkUser(t, s)
	_, err := s.Assign(context.Background(), 99999, u.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
