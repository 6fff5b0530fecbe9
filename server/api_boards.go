package main

import (
	"net/http"
	"strings"
)

func (a *api) handleListBoards(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.BoardsForUser(r.Context(), u.ID)
	if err != nil {
		a.writeStoreError(w, "list boards", err)
		return
	}
	if items == nil {
		items = []Board{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Title           string `json:"title" validate:"required"`
		Description     string `json:"description"`
		BackgroundColor string `json:"background_color"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	b, err := a.store.CreateBoard(r.Context(), u.ID, BoardAttrs{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		BackgroundColor: req.BackgroundColor,
	})
	if err != nil {
		a.writeStoreError(w, "create board", err)
		return
	}
	writeJSON(w, 201, b)
}

func (a *api) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	d, err := a.store.GetBoardDetail(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "get board", err)
		return
	}
	writeJSON(w, 200, d)
}

func (a *api) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		BackgroundColor *string `json:"background_color"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	b, err := a.store.UpdateBoard(r.Context(), id, req.Title, req.Description, req.BackgroundColor)
	if err != nil {
		a.writeStoreError(w, "update board", err)
		return
	}
	writeJSON(w, 200, b)
}

func (a *api) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteBoard(r.Context(), id); err != nil {
		a.writeStoreError(w, "delete board", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
