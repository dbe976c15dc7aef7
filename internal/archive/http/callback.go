package http

import (
	"net/http"
	"strings"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/handshake"
)

type CallbackHandler struct {
	Callback *handshake.Callback
}

// ServeHTTP handles the provider's post-login redirect.
//
//	@Summary		Authentication callback
//	@Description	Landing route for the identity provider's redirect. Decodes the token
//	@Description	from the query string, commits the session and renders the terminal
//	@Description	state of the handshake. Invalid tokens keep the user on this page so
//	@Description	they can see what went wrong; only success moves on.
//	@Tags			Auth
//	@Produce		html
//	@Param			token		query	string	false	"Bearer token issued by the provider"
//	@Param			returnUrl	query	string	false	"Post-login destination"	default(/)
//	@Param			popup		query	string	false	"Set when running in the popup flow"
//	@Success		200	{string}	string	"Terminal handshake state page"
//	@Router			/auth/callback [get].
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res := h.Callback.Process(r.Context(), handshake.CallbackRequest{
		Token:     q.Get("token"),
		ReturnURL: sanitizeReturnURL(q.Get("returnUrl")),
		Popup:     q.Get("popup") == "true",
	})

	data := struct {
		State    string
		Reason   string
		Username string
		Popup    bool
		Refresh  string
	}{
		State:  string(res.State),
		Reason: res.Reason,
		Popup:  q.Get("popup") == "true",
	}
	if res.User != nil {
		data.Username = res.User.Username
	}
	if res.State == domain.CallbackSuccess {
		if data.Popup {
			// The popup closes itself; the refresh is only a fallback that
			// lands it on the closer page.
			data.Refresh = "1;url=/auth/popup-closer"
		} else {
			data.Refresh = "2;url=" + res.ReturnURL
		}
	}

	renderHTML(w, http.StatusOK, callbackTmpl, data)
}

// sanitizeReturnURL confines the post-login destination to archive-relative
// paths so the callback can't be used as an open redirect.
func sanitizeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	return raw
}
