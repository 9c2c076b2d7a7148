package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vetcare/portal/session"
	"github.com/vetcare/portal/users"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// HTMLMiddleware is the base chain every page goes through
func (s *Server) HTMLMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chained := []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.FrameSecurityMiddleware,
	}
	return append(chained, mw...)
}

// ProtectedMiddleware is the chain for pages behind the authentication gate
func (s *Server) ProtectedMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	return s.HTMLMiddleware(append([]func(http.HandlerFunc) http.HandlerFunc{s.RequireSession()}, mw...)...)
}

// RequireSession is the authentication gate evaluated on every navigation.
// While the startup session check is still in flight it renders a neutral
// placeholder instead of redirecting, so a slow backend never produces a
// false "anonymous" bounce to the login page.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch s.session.State() {
			case session.StateLoading:
				s.renderLoading(w)
			case session.StateAuthenticated:
				next(w, r)
			default:
				http.Redirect(w, r, RouteLogin+"?session=expired", http.StatusSeeOther)
			}
		}
	}
}

// RequireRole is the role gate for a view subtree. It assumes RequireSession
// ran first; a user outside the required set is sent to the unauthorized
// page, never silently dropped.
func (s *Server) RequireRole(roles ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !s.session.HasAnyRole(roles...) {
				http.Redirect(w, r, RouteUnauthorized, http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			logRoute(r.Method, r.URL.Path)
		}
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("Recovered from handler panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func (s *Server) FrameSecurityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Prevent embedding on other sites
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next(w, r)
	}
}
