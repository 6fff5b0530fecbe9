package main

import (
	"net/http"
	"strings"
)

// handleListsByBoard returns the board's ordered lists with their ordered cards.
func (a *api) handleListsByBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetBoard(r.Context(), id); err != nil {
		a.writeStoreError(w, "get board", err)
		return
	}
	lists, err := a.store.ListsWithCards(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "lists by board", err)
		return
	}
	if lists == nil {
		lists = []List{}
	}
	writeJSON(w, 200, lists)
}

func (a *api) handleCreateList(w http.ResponseWriter, r *http.Request) {
	boardID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Title    string `json:"title" validate:"required"`
		Position int64  `json:"position"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	l, err := a.store.CreateList(r.Context(), boardID, strings.TrimSpace(req.Title), req.Position)
	if err != nil {
		a.writeStoreError(w, "create list", err)
		return
	}
	writeJSON(w, 201, l)
}

func (a *api) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Title    *string `json:"title"`
		Position *int64  `json:"position"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	l, err := a.store.UpdateList(r.Context(), id, req.Title, req.Position)
	if err != nil {
		a.writeStoreError(w, "update list", err)
		return
	}
	writeJSON(w, 200, l)
}

func (a *api) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteList(r.Context(), id); err != nil {
		a.writeStoreError(w, "delete list", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
