package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/owners"
)

// pathID parses the {id} wildcard of the matched route
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ownersListRoute is where owner actions return to for the current role
func (s *Server) ownersListRoute() string {
	base := s.session.LandingRoute()
	switch base {
	case RouteAdmin, RouteReception:
		return base + "/owners"
	default:
		return base
	}
}

// failPage turns a backend error into an alert and sends the user back
func (s *Server) failPage(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if apiErr, ok := api.AsError(err); ok {
		s.alerts.Error(apiErr.Message)
	} else {
		log.Err(err).Str("path", r.URL.Path).Msg("Backend call failed")
		s.alerts.Error("Something went wrong, please try again")
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

// OwnersListHandler renders the owner roster for the subtree it is
// mounted under
func (s *Server) OwnersListHandler() http.HandlerFunc {
	tmpl := parseView("owners_list.html")

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.clients.Owners.List(r.Context())
		if err != nil {
			s.failPage(w, r, err, s.session.LandingRoute())
			return
		}
		s.render(w, tmpl, s.viewData(r, "Owners", list))
	}
}

type ownerDetailData struct {
	Owner    *owners.Owner
	Patients []ownerPatient
}

type ownerPatient struct {
	ID   int
	Name string
	Type string
}

// OwnerDetailHandler renders one owner together with their animals
func (s *Server) OwnerDetailHandler() http.HandlerFunc {
	tmpl := parseView("owner_detail.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		owner, err := s.clients.Owners.Get(r.Context(), id)
		if err != nil {
			s.failPage(w, r, err, s.ownersListRoute())
			return
		}

		data := ownerDetailData{Owner: owner}
		if patientList, err := s.clients.Patients.List(r.Context()); err == nil {
			for _, p := range patientList {
				if p.Owner == id {
					data.Patients = append(data.Patients, ownerPatient{ID: p.ID, Name: p.Name, Type: p.TypeDisplay})
				}
			}
		}

		s.render(w, tmpl, s.viewData(r, owner.FullName(), data))
	}
}

type ownerFormData struct {
	Owner  owners.Owner
	Action string
	Error  string
	Fields map[string][]string
}

// OwnerFormHandler renders the create form, or the edit form when the
// route carries an id
func (s *Server) OwnerFormHandler() http.HandlerFunc {
	tmpl := parseView("owner_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := ownerFormData{Action: RouteOwnerCreate}

		if raw := r.PathValue("id"); raw != "" {
			id, ok := pathID(r)
			if !ok {
				s.NotFoundHandler()(w, r)
				return
			}
			owner, err := s.clients.Owners.Get(r.Context(), id)
			if err != nil {
				s.failPage(w, r, err, s.ownersListRoute())
				return
			}
			data.Owner = *owner
			data.Action = "/owners/" + raw + "/edit"
		}

		s.render(w, tmpl, s.viewData(r, "Owner", data))
	}
}

func ownerFromForm(r *http.Request) owners.Owner {
	return owners.Owner{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Address:   strings.TrimSpace(r.FormValue("address")),
	}
}

// OwnerCreateHandler saves a new owner. A duplicate email is caught
// before the write so the form can point at the existing record.
func (s *Server) OwnerCreateHandler() http.HandlerFunc {
	tmpl := parseView("owner_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		owner := ownerFromForm(r)

		renderForm := func(message string, fields map[string][]string) {
			s.render(w, tmpl, s.viewData(r, "Owner", ownerFormData{
				Owner:  owner,
				Action: RouteOwnerCreate,
				Error:  message,
				Fields: fields,
			}))
		}

		if owner.Email != "" {
			if exists, err := s.clients.Owners.CheckEmail(r.Context(), owner.Email); err == nil && exists {
				renderForm("An owner with this email already exists", nil)
				return
			}
		}

		created, err := s.clients.Owners.Create(r.Context(), owner)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				renderForm(apiErr.Message, apiErr.Errors)
				return
			}
			s.failPage(w, r, err, s.ownersListRoute())
			return
		}

		s.alerts.Success("Owner " + created.FullName() + " created")
		http.Redirect(w, r, s.ownersListRoute(), http.StatusSeeOther)
	}
}

// OwnerUpdateHandler saves edits to an existing owner
func (s *Server) OwnerUpdateHandler() http.HandlerFunc {
	tmpl := parseView("owner_form.html")

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
		owner := ownerFromForm(r)
		owner.ID = id

		updated, err := s.clients.Owners.Update(r.Context(), id, owner)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				s.render(w, tmpl, s.viewData(r, "Owner", ownerFormData{
					Owner:  owner,
					Action: r.URL.Path,
					Error:  apiErr.Message,
					Fields: apiErr.Errors,
				}))
				return
			}
			s.failPage(w, r, err, s.ownersListRoute())
			return
		}

		s.alerts.Success("Owner " + updated.FullName() + " updated")
		http.Redirect(w, r, s.ownersListRoute(), http.StatusSeeOther)
	}
}

// OwnerDeleteHandler removes an owner record
func (s *Server) OwnerDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		if err := s.clients.Owners.Delete(r.Context(), id); err != nil {
			s.failPage(w, r, err, s.ownersListRoute())
			return
		}

		s.alerts.Success("Owner deleted")
		http.Redirect(w, r, s.ownersListRoute(), http.StatusSeeOther)
	}
}
