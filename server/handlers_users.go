package server

import (
	"net/http"
	"strings"

	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/users"
)

// UsersListHandler renders the staff account roster
func (s *Server) UsersListHandler() http.HandlerFunc {
	tmpl := parseView("users_list.html")

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.clients.Users.List(r.Context())
		if err != nil {
			s.failPage(w, r, err, RouteAdmin)
			return
		}
		s.render(w, tmpl, s.viewData(r, "Staff", list))
	}
}

type userFormData struct {
	Form    users.CreateRequest
	Roles   []users.Role
	Action  string
	Editing bool // password fields become optional
	Error   string
	Fields  map[string][]string
}

// UserFormHandler renders the new staff account form
func (s *Server) UserFormHandler() http.HandlerFunc {
	tmpl := parseView("user_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, tmpl, s.viewData(r, "New Staff Account", userFormData{
			Roles:  users.Roles,
			Action: RouteAdminUsers,
			Form:   users.CreateRequest{Role: users.RoleReceptionist},
		}))
	}
}

// UserEditHandler renders the edit form for an existing staff account
func (s *Server) UserEditHandler() http.HandlerFunc {
	tmpl := parseView("user_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		list, err := s.clients.Users.List(r.Context())
		if err != nil {
			s.failPage(w, r, err, RouteAdminUsers)
			return
		}
		var account *users.User
		for i := range list {
			if list[i].ID == id {
				account = &list[i]
				break
			}
		}
		if account == nil {
			s.NotFoundHandler()(w, r)
			return
		}

		s.render(w, tmpl, s.viewData(r, "Edit Staff Account", userFormData{
			Roles:   users.Roles,
			Action:  r.URL.Path,
			Editing: true,
			Form: users.CreateRequest{
				Email:     account.Email,
				FirstName: account.FirstName,
				LastName:  account.LastName,
				Role:      account.Role,
			},
		}))
	}
}

// UserCreateHandler provisions a staff account
func (s *Server) UserCreateHandler() http.HandlerFunc {
	tmpl := parseView("user_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		role, err := users.ParseRole(r.FormValue("role"))
		if err != nil {
			role = users.RoleReceptionist
		}
		form := users.CreateRequest{
			Email:     strings.TrimSpace(r.FormValue("email")),
			Password:  r.FormValue("password"),
			Password2: r.FormValue("password2"),
			FirstName: strings.TrimSpace(r.FormValue("first_name")),
			LastName:  strings.TrimSpace(r.FormValue("last_name")),
			Role:      role,
		}

		renderForm := func(message string, fields map[string][]string) {
			s.render(w, tmpl, s.viewData(r, "New Staff Account", userFormData{
				Form:   form,
				Roles:  users.Roles,
				Action: RouteAdminUsers,
				Error:  message,
				Fields: fields,
			}))
		}

		if form.Password != form.Password2 {
			renderForm("Passwords do not match", nil)
			return
		}

		created, err := s.clients.Users.Create(r.Context(), form)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				renderForm(apiErr.Message, apiErr.Errors)
				return
			}
			s.failPage(w, r, err, RouteAdminUsers)
			return
		}

		s.alerts.Success("Account for " + created.DisplayName() + " created")
		http.Redirect(w, r, RouteAdminUsers, http.StatusSeeOther)
	}
}

// UserUpdateHandler saves edits to a staff account
func (s *Server) UserUpdateHandler() http.HandlerFunc {
	tmpl := parseView("user_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		role, err := users.ParseRole(r.FormValue("role"))
		if err != nil {
			role = users.RoleReceptionist
		}
		form := users.CreateRequest{
			Email:     strings.TrimSpace(r.FormValue("email")),
			Password:  r.FormValue("password"),
			Password2: r.FormValue("password2"),
			FirstName: strings.TrimSpace(r.FormValue("first_name")),
			LastName:  strings.TrimSpace(r.FormValue("last_name")),
			Role:      role,
		}

		renderForm := func(message string, fields map[string][]string) {
			s.render(w, tmpl, s.viewData(r, "Edit Staff Account", userFormData{
				Form:    form,
				Roles:   users.Roles,
				Action:  r.URL.Path,
				Editing: true,
				Error:   message,
				Fields:  fields,
			}))
		}

		if form.Password != form.Password2 {
			renderForm("Passwords do not match", nil)
			return
		}

		updated, err := s.clients.Users.Update(r.Context(), id, form)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				renderForm(apiErr.Message, apiErr.Errors)
				return
			}
			s.failPage(w, r, err, RouteAdminUsers)
			return
		}

		s.alerts.Success("Account for " + updated.DisplayName() + " updated")
		http.Redirect(w, r, RouteAdminUsers, http.StatusSeeOther)
	}
}

// UserDeleteHandler removes a staff account. Deleting the signed-in
// account is refused to avoid locking the administrator out.
func (s *Server) UserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		if current := s.session.CurrentUser(); current != nil && current.ID == id {
			s.alerts.Error("You cannot delete your own account")
			http.Redirect(w, r, RouteAdminUsers, http.StatusSeeOther)
			return
		}

		if err := s.clients.Users.Delete(r.Context(), id); err != nil {
			s.failPage(w, r, err, RouteAdminUsers)
			return
		}

		s.alerts.Success("Account deleted")
		http.Redirect(w, r, RouteAdminUsers, http.StatusSeeOther)
	}
}

// RolesHandler renders the role catalogue the backend exposes
func (s *Server) RolesHandler() http.HandlerFunc {
	tmpl := parseView("roles.html")

	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := s.clients.Users.Roles(r.Context())
		if err != nil {
			s.failPage(w, r, err, RouteAdmin)
			return
		}
		s.render(w, tmpl, s.viewData(r, "Roles", roles))
	}
}
