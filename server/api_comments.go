package main

import (
	"net/http"
	"strings"
)

func (a *api) handleCommentsByCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetCard(r.Context(), id); err != nil {
		a.writeStoreError(w, "get card", err)
		return
	}
	items, err := a.store.CommentsByCard(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "comments by card", err)
		return
	}
	if items == nil {
		items = []Comment{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Content string `json:"content" validate:"required"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.AddComment(r.Context(), id, u.ID, strings.TrimSpace(req.Content))
	if err != nil {
		a.writeStoreError(w, "add comment", err)
		return
	}
	c.User = u
	writeJSON(w, 201, c)
}

func (a *api) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteComment(r.Context(), id); err != nil {
		a.writeStoreError(w, "delete comment", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		UserID int64 `json:"user_id" validate:"required"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	asg, err := a.store.Assign(r.Context(), id, req.UserID)
	if err != nil {
		a.writeStoreError(w, "assign card", err)
		return
	}
	writeJSON(w, 201, asg)
}

func (a *api) handleUnassign(w http.ResponseWriter, r *http.Request) {
	cardID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	assigneeID, err := parseID(r.PathValue("aid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.Unassign(r.Context(), cardID, assigneeID); err != nil {
		a.writeStoreError(w, "unassign card", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
