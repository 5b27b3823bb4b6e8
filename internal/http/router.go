package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultBodyLimit caps request bodies when RouterConfig.BodyLimit is zero.
const DefaultBodyLimit = 8 << 20

type RouterConfig struct {
	Documents  *DocumentHandler
	Tools      *ToolHandler
	BodyLimit  int64
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}
	limit := cfg.BodyLimit
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	r.Use(LimitBody(limit))

	fallback := newResponder(nil)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		fallback.writeJSON(req.Context(), w, http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		fallback.writeJSON(req.Context(), w, http.StatusMethodNotAllowed, errorResponse{Message: statusMessage(http.StatusMethodNotAllowed)})
	})

	if cfg.Documents != nil {
		h := cfg.Documents
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/migrate", h.Migrate)
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", h.Get)
				r.Put("/", h.Put)
				r.Delete("/", h.Delete)
				r.Get("/running-order", h.RunningOrder)
				r.Get("/fan-zone", h.FanZone)
				r.Get("/validation", h.Validation)
				r.Post("/items", h.CreateItem)
				r.Delete("/items/{itemID}", h.DeleteItem)
				r.Put("/items/{itemID}/audio-sources", h.SetAudioSources)
				r.Post("/categories", h.AddCategory)
			})
		})
	}

	if cfg.Tools != nil {
		r.Post("/tokens/apply", cfg.Tools.ApplyTokens)
		r.Get("/timecodes", cfg.Tools.ParseTimeCode)
	}

	return r
}
