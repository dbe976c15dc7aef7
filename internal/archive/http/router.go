package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/handshake"
	"github.com/mc-mysterria/archive-forum/internal/archive/session"
	"github.com/mc-mysterria/archive-forum/internal/archive/store"
	"github.com/mc-mysterria/archive-forum/pkg/httpx"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"

	_ "github.com/mc-mysterria/archive-forum/api/archive" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	origin       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	Sessions *session.Service
	Callback *handshake.Callback
	Closer   *handshake.Closer
	Provider *mysterria.Client
	Storage  winrelay.Storage
}

func NewRouter(
	origin, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		origin:       origin,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Mysterria Archive API
//	@version		0.1.0
//	@description	Session and authentication surface for the Mysterria Archive.
//	@description
//	@description				Login is delegated to the main Mysterria site; the archive only
//	@description				relays and stores the resulting bearer token. Tokens are decoded,
//	@description				never verified, here.
//
//	@contact.name				Mysterria Team
//	@contact.url				https://github.com/mc-mysterria/archive-forum
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// GET /login - lenient limit (renders the launcher page or redirects)
	loginHandler := &LoginHandler{Sessions: r.Sessions, Provider: r.Provider, Origin: r.origin}
	r.Mux.Handle("GET /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /auth/callback - strict limit by IP (token relay abuse prevention)
	callbackHandler := &CallbackHandler{Callback: r.Callback}
	r.Mux.Handle("GET /auth/callback",
		httpx.Chain(callbackHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /auth/popup-closer - lenient limit (polled twice a second per tab)
	closerHandler := &PopupCloserHandler{Closer: r.Closer}
	r.Mux.Handle("GET /auth/popup-closer",
		httpx.Chain(closerHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.Sessions, Storage: r.Storage}

	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/session/can",
		httpx.Chain(http.HandlerFunc(h.HandleCan),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/session/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
