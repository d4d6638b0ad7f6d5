// internal/app/features/register/routes.go
package register

import (
	"github.com/dalemusser/pujahub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes serves POST /register behind limiter.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.With(ratelimit.Middleware(limiter)).Post("/", h.HandleRegister)
	return r
}
