package http

import (
	"net/http"
	"net/url"

	"github.com/mc-mysterria/archive-forum/internal/archive/session"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
)

type LoginHandler struct {
	Sessions *session.Service
	Provider *mysterria.Client
	Origin   string
}

// ServeHTTP handles the login launcher page.
//
//	@Summary		Login page
//	@Description	Renders the provider login launcher. A user with an existing session
//	@Description	is sent straight to their destination without touching the provider.
//	@Tags			Auth
//	@Produce		html
//	@Param			returnUrl	query		string	false	"Post-login destination"	default(/)
//	@Success		200			{string}	string	"Login launcher page"
//	@Success		302			{string}	string	"Existing session, redirected to returnUrl"
//	@Router			/login [get].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	returnURL := sanitizeReturnURL(r.URL.Query().Get("returnUrl"))

	if h.Sessions.Authenticated() {
		slogx.FromContext(r.Context()).Info("login short-circuited, session already present", "return_url", returnURL)
		http.Redirect(w, r, returnURL, http.StatusFound)
		return
	}

	callback := h.Origin + "/auth/callback?popup=true&returnUrl=" + url.QueryEscape(returnURL)
	renderHTML(w, http.StatusOK, loginTmpl, struct {
		LoginURL    string
		RegisterURL string
	}{
		LoginURL:    h.Provider.LoginURL(callback),
		RegisterURL: h.Provider.RegisterURL(),
	})
}
