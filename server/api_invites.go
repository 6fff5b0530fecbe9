package main

import (
	"net/http"
	"strings"
)

func (a *api) handleListInvites(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetBoard(r.Context(), id); err != nil {
		a.writeStoreError(w, "get board", err)
		return
	}
	items, err := a.store.InvitesByBoard(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "list invites", err)
		return
	}
	if items == nil {
		items = []Invite{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
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
		Email string `json:"email" validate:"required,email"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	in, err := a.store.CreateInvite(r.Context(), id, strings.ToLower(req.Email), u.ID)
	if err != nil {
		a.writeStoreError(w, "create invite", err)
		return
	}
	writeJSON(w, 201, in)
}

func (a *api) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := a.decode(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	in, err := a.store.AcceptInvite(r.Context(), req.Token, u.ID)
	if err != nil {
		a.writeStoreError(w, "accept invite", err)
		return
	}
	writeJSON(w, 200, in)
}
