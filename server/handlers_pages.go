package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vetcare/portal/appointments"
	"github.com/vetcare/portal/owners"
	"github.com/vetcare/portal/patients"
)

// RootHandler sends the visitor to their landing page, or to login when
// there is no session
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.session.LandingRoute(), http.StatusSeeOther)
	}
}

type dashboardData struct {
	OwnerCount       int
	PatientCount     int
	AppointmentCount int
	RecentOwners     []owners.Owner
	RecentPatients   []patients.Patient
	Upcoming         []appointments.Appointment
}

// DashboardHandler renders the landing page for whichever role subtree it
// is mounted under. Each panel degrades independently when the backend
// call behind it fails.
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := parseView("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var data dashboardData

		ownerList, err := s.clients.Owners.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Dashboard owner panel unavailable")
		} else {
			data.OwnerCount = len(ownerList)
			data.RecentOwners = tail(ownerList, 5)
		}

		patientList, err := s.clients.Patients.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Dashboard patient panel unavailable")
		} else {
			data.PatientCount = len(patientList)
			data.RecentPatients = tail(patientList, 5)
		}

		appointmentList, err := s.clients.Appointments.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Dashboard appointment panel unavailable")
		} else {
			data.AppointmentCount = len(appointmentList)
			data.Upcoming = upcoming(appointmentList, 5)
		}

		s.render(w, tmpl, s.viewData(r, "Dashboard", data))
	}
}

// tail returns the last n elements, newest last per backend ordering
func tail[T any](list []T, n int) []T {
	if len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}

// upcoming filters out finished appointments and caps the result
func upcoming(list []appointments.Appointment, n int) []appointments.Appointment {
	var out []appointments.Appointment
	for _, appt := range list {
		if appt.Status == appointments.StatusScheduled {
			out = append(out, appt)
		}
		if len(out) == n {
			break
		}
	}
	return out
}

// UnauthorizedHandler renders the access-denied page shown when a role
// gate rejects a navigation
func (s *Server) UnauthorizedHandler() http.HandlerFunc {
	tmpl := parseView("unauthorized.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.renderStatus(w, http.StatusForbidden, tmpl, s.viewData(r, "Access Denied", nil))
	}
}

// NotFoundHandler is the catch-all for paths outside the route table
func (s *Server) NotFoundHandler() http.HandlerFunc {
	tmpl := parseView("notfound.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.renderStatus(w, http.StatusNotFound, tmpl, s.viewData(r, "Page Not Found", r.URL.Path))
	}
}
