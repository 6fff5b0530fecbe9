package main

import (
	"net/http"
	"strings"
	"time"
)

func (a *api) handleCardsByList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetList(r.Context(), id); err != nil {
		a.writeStoreError(w, "get list", err)
		return
	}
	cards, err := a.store.CardsByList(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "cards by list", err)
		return
	}
	if cards == nil {
		cards = []Card{}
	}
	writeJSON(w, 200, cards)
}

func (a *api) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	listID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Title       string     `json:"title" validate:"required"`
		Description string     `json:"description"`
		Position    int64      `json:"position"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.CreateCard(r.Context(), listID, strings.TrimSpace(req.Title), req.Description, req.Position, req.DueDate)
	if err != nil {
		a.writeStoreError(w, "create card", err)
		return
	}
	writeJSON(w, 201, c)
}

// handleGetCard returns the card detail: assignees and comments embedded.
func (a *api) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	d, err := a.store.GetCardDetail(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "get card", err)
		return
	}
	if d.Assignees == nil {
		d.Assignees = []CardAssignee{}
	}
	if d.Comments == nil {
		d.Comments = []Comment{}
	}
	writeJSON(w, 200, d)
}

func (a *api) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Position    *int64     `json:"position"`
		ListID      *int64     `json:"list_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.UpdateCard(r.Context(), id, CardUpdate{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		ListID:      req.ListID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		a.writeStoreError(w, "update card", err)
		return
	}
	writeJSON(w, 200, c)
}

func (a *api) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteCard(r.Context(), id); err != nil {
		a.writeStoreError(w, "delete card", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
