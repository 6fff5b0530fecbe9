package main

import "net/http"

func (a *api) handleListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetBoard(r.Context(), id); err != nil {
		a.writeStoreError(w, "get board", err)
		return
	}
	members, err := a.store.ListMembers(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "list members", err)
		return
	}
	if members == nil {
		members = []BoardMember{}
	}
	writeJSON(w, 200, members)
}

func (a *api) handleAddMember(w http.ResponseWriter, r *http.Request) {
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
	m, err := a.store.AddMember(r.Context(), id, req.UserID)
	if err != nil {
		a.writeStoreError(w, "add member", err)
		return
	}
	writeJSON(w, 201, m)
}

func (a *api) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	boardID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	memberID, err := parseID(r.PathValue("mid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.RemoveMember(r.Context(), boardID, memberID); err != nil {
		a.writeStoreError(w, "remove member", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
