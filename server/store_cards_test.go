package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMoveCardAcrossLists(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)

	todo, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	doing, err := s.CreateList(ctx, b.ID, "Doing", 1)
	require.NoError(t, err)

	c, err := s.CreateCard(ctx, todo.ID, "C1", "", 0, nil)
	require.NoError(t, err)
	existing, err := s.CreateCard(ctx, doing.ID, "already here", "", 5, nil)
	require.NoError(t, err)

	// cross-list move plus position change in one operation
	pos := int64(3)
	moved, err := s.UpdateCard(ctx, c.ID, CardUpdate{ListID: &doing.ID, Position: &pos})
	require.NoError(t, err)
	require.Equal(t, doing.ID, moved.ListID)
	require.Equal(t, int64(3), moved.Position)

	old, err := s.CardsByList(ctx, todo.ID)
	require.NoError(t, err)
	require.Empty(t, old)

	cards, err := s.CardsByList(ctx, doing.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	// position 3 sorts before the resident card at 5
	require.Equal(t, c.ID, cards[0].ID)
	require.Equal(t, existing.ID, cards[1].ID)
}

func TestMoveCardToUnknownList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)
	todo, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, todo.ID, "C1", "", 0, nil)
	require.NoError(t, err)

	missing := int64(99999)
	_, err = s.UpdateCard(ctx, c.ID, CardUpdate{ListID: &missing})
	require.ErrorIs(t, err, ErrNotFound)

	// the card stayed where it was
	got, err := s.GetCard(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, todo.ID, got.ListID)
}

func TestUpdateCardPartial(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)
	todo, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, todo.ID, "C1", "desc", 0, nil)
	require.NoError(t, err)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	title := "renamed"
	got, err := s.UpdateCard(ctx, c.ID, CardUpdate{Title: &title, DueDate: &due})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Title)
	require.Equal(t, "desc", got.Description)
	require.NotNil(t, got.DueDate)
	require.True(t, got.DueDate.Equal(due))

	// empty update returns the current row
	same, err := s.UpdateCard(ctx, c.ID, CardUpdate{})
	require.NoError(t, err)
	require.Equal(t, got.Title, same.Title)

	empty := ""
	_, err = s.UpdateCard(ctx, c.ID, CardUpdate{Title: &empty})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.UpdateCard(ctx, 99999, CardUpdate{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCardCascades(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)
	todo, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, todo.ID, "C1", "", 0, nil)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, c.ID, u.ID, "note")
	require.NoError(t, err)
	_, err = s.Assign(ctx, c.ID, u.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCard(ctx, c.ID))

	comments, err := s.CommentsByCard(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, comments)
	assignees, err := s.AssigneesByCard(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, assignees)

	require.ErrorIs(t, s.DeleteCard(ctx, c.ID), ErrNotFound)
}

func TestGetCardDetail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := mkUser(t, s)
	b := mkBoard(t, s, u.ID)
	todo, err := s.CreateList(ctx, b.ID, "Todo", 0)
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, todo.ID, "C1", "", 0, nil)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, c.ID, u.ID, "note")
	require.NoError(t, err)
	_, err = s.Assign(ctx, c.ID, u.ID)
	require.NoError(t, err)

	d, err := s.GetCardDetail(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, d.Comments, 1)
	require.Len(t, d.Assignees, 1)
	require.NotNil(t, d.Comments[0].User)
	require.Equal(t, u.Username, d.Comments[0].User.Username)
	require.NotNil(t, d.Assignees[0].User)

	_, err = s.GetCardDetail(ctx, 99999)
	require.ErrorIs(t, err, ErrNotFound)
}
