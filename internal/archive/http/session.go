package http

import (
	"net/http"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/session"
	"github.com/mc-mysterria/archive-forum/pkg/httpx"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"
)

type SessionHandler struct {
	Sessions *session.Service
	Storage  winrelay.Storage
}

// SessionResponse describes the current session and the derived permission
// set the UI gates on.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`

	CanRead     bool `json:"can_read"`
	CanWrite    bool `json:"can_write"`
	CanModerate bool `json:"can_moderate"`
}

// HandleGet returns the current session.
//
//	@Summary		Get session
//	@Description	Returns the current session and its derived permissions. Permissions
//	@Description	are computed per request, never cached: read is always allowed, write
//	@Description	and moderate require the matching archive permission on the session.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	SessionResponse	"Current session state"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	current := h.Sessions.Current()

	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		Authenticated: current.Authenticated(),
		User:          current.User,
		CanRead:       h.Sessions.CanRead(),
		CanWrite:      h.Sessions.CanWrite(),
		CanModerate:   h.Sessions.CanModerate(),
	})
}

// PermissionResponse reports one permission check.
type PermissionResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

// HandleCan checks a single permission.
//
//	@Summary		Check permission
//	@Description	Evaluates one permission against the current session. Read is always
//	@Description	allowed; anything else requires the named permission on the session.
//	@Tags			Session
//	@Produce		json
//	@Param			perm	query		string	true	"Permission string, e.g. PERM_ARCHIVE:WRITE"
//	@Success		200		{object}	PermissionResponse	"Check result"
//	@Failure		400		{object}	map[string]string	"Missing perm parameter"
//	@Router			/v1/session/can [get].
func (h *SessionHandler) HandleCan(w http.ResponseWriter, r *http.Request) {
	perm := r.URL.Query().Get("perm")
	if perm == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "perm query parameter is required",
		})
		return
	}

	allowed := perm == domain.PermArchiveRead || h.Sessions.HasPermission(perm)

	httpx.WriteJSON(w, http.StatusOK, PermissionResponse{
		Permission: perm,
		Allowed:    allowed,
	})
}

// HandleLogout clears the session.
//
//	@Summary		Logout
//	@Description	Clears the session and the token mirror. Idempotent: logging out
//	@Description	while logged out is a success.
//	@Tags			Session
//	@Produce		json
//	@Success		204	"Session cleared"
//	@Failure		500	{object}	map[string]string	"Failed to clear the session"
//	@Router			/v1/session/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.Sessions.Clear(ctx); err != nil {
		log.Error("failed to clear session", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to clear session",
		})
		return
	}

	if h.Storage != nil {
		h.Storage.Delete(domain.TokenMirrorKey)
		h.Storage.Delete(domain.CompletionFlagKey)
	}

	log.Info("session cleared")
	w.WriteHeader(http.StatusNoContent)
}
