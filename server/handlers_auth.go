package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/session"
	"github.com/vetcare/portal/users"
)

// loginPageData feeds the standalone login template
type loginPageData struct {
	AppName    string
	Error      string
	Notice     string
	Identifier string // Preserve the identifier on error
}

// LoginPageHandler displays the login page (GET /login). An authenticated
// user is sent straight to their landing page so navigating to /login never
// loops.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl := parsePage("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if s.session.IsAuthenticated() {
			http.Redirect(w, r, s.session.LandingRoute(), http.StatusSeeOther)
			return
		}

		data := loginPageData{
			AppName:    s.config.GetAppName(),
			Error:      r.URL.Query().Get("error"),
			Identifier: r.URL.Query().Get("identifier"),
		}
		switch {
		case r.URL.Query().Get("session") == "expired":
			data.Notice = "Your session has expired. Please sign in again."
		case r.URL.Query().Get("registered") == "1":
			data.Notice = "Account created. Sign in to continue."
		}
		s.render(w, tmpl, data)
	}
}

// LoginSubmissionHandler processes the login form (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	tmpl := parsePage("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		identifier := r.FormValue("identifier")
		password := r.FormValue("password")

		renderError := func(message string) {
			s.render(w, tmpl, loginPageData{
				AppName:    s.config.GetAppName(),
				Error:      message,
				Identifier: identifier,
			})
		}

		if identifier == "" || password == "" {
			renderError("Identifier and password are required")
			return
		}

		user, err := s.session.Login(r.Context(), identifier, password)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok {
				renderError(apiErr.Message)
			} else {
				log.Err(err).Msg("Login failed")
				renderError("Sign-in failed, please try again")
			}
			return
		}

		s.alerts.Success("Welcome back, " + user.DisplayName())
		http.Redirect(w, r, s.session.LandingRoute(), http.StatusSeeOther)
	}
}

// registerPageData feeds the standalone register template
type registerPageData struct {
	AppName string
	Error   string
	Fields  map[string][]string
	Form    session.RegisterRequest
	Roles   []users.Role
}

// RegisterPageHandler displays the self-registration page (GET /register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	tmpl := parsePage("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, tmpl, registerPageData{
			AppName: s.config.GetAppName(),
			Roles:   users.Roles,
			Form:    session.RegisterRequest{Role: users.RoleReceptionist},
		})
	}
}

// RegisterSubmissionHandler processes the registration form (POST /register).
// A created account is NOT logged in; the user is pointed at the login page.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	tmpl := parsePage("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		role, err := users.ParseRole(r.FormValue("role"))
		if err != nil {
			role = users.RoleReceptionist
		}
		form := session.RegisterRequest{
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			Password2: r.FormValue("password2"),
			FirstName: r.FormValue("first_name"),
			LastName:  r.FormValue("last_name"),
			Role:      role,
		}

		data := registerPageData{
			AppName: s.config.GetAppName(),
			Roles:   users.Roles,
			Form:    form,
		}

		if form.Password != form.Password2 {
			data.Error = "Passwords do not match"
			s.render(w, tmpl, data)
			return
		}

		if _, err := s.session.Register(r.Context(), form); err != nil {
			if apiErr, ok := api.AsError(err); ok {
				data.Error = apiErr.Message
				data.Fields = apiErr.Errors
			} else {
				log.Err(err).Msg("Registration failed")
				data.Error = "Registration failed, please try again"
			}
			s.render(w, tmpl, data)
			return
		}

		http.Redirect(w, r, RouteLogin+"?registered=1", http.StatusSeeOther)
	}
}

// LogoutHandler clears the session and returns to the login page. It is
// safe to hit while already anonymous.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.session.Logout(r.Context())
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
