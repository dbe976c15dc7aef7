package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/handshake"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
)

type PopupCloserHandler struct {
	Closer *handshake.Closer
}

// ServeHTTP handles the stuck-popup recovery page.
//
//	@Summary		Popup closer page
//	@Description	Recovery page for auth windows stranded by the provider's nested
//	@Description	redirect. Each load checks the shared completion flag; once it is
//	@Description	observed (and cleared) the page closes the stale window. The page
//	@Description	refreshes itself twice a second until then, giving up after the
//	@Description	failsafe bound.
//	@Tags			Auth
//	@Produce		html
//	@Param			since	query		int		false	"Millisecond timestamp of the first load, used for the failsafe"
//	@Success		200		{string}	string	"Closer page"
//	@Router			/auth/popup-closer [get].
func (h *PopupCloserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	done := h.Closer.Observe()
	if done {
		slogx.FromContext(r.Context()).Info("completion flag observed, closing auth window")
	}

	// The failsafe rides on the first load's timestamp. A since-less load is
	// the first one: it stamps now, and the refresh URL carries the stamp
	// forward so every subsequent load measures against the same start.
	since, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	if err != nil {
		since = time.Now().UnixMilli()
	}
	if !done && time.Since(time.UnixMilli(since)) > h.Closer.Failsafe {
		slogx.FromContext(r.Context()).Warn("popup closer gave up waiting")
		done = true
	}

	renderHTML(w, http.StatusOK, closerTmpl, struct {
		Done       bool
		RefreshURL string
	}{
		Done:       done,
		RefreshURL: "/auth/popup-closer?since=" + strconv.FormatInt(since, 10),
	})
}
