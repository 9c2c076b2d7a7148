package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/appointments"
	"github.com/vetcare/portal/patients"
	"github.com/vetcare/portal/users"
)

type appointmentsListData struct {
	Appointments []appointments.Appointment
	Statuses     []appointments.Status
}

// AppointmentsListHandler renders the schedule. The backend already scopes
// veterinarians to their own appointments.
func (s *Server) AppointmentsListHandler() http.HandlerFunc {
	tmpl := parseView("appointments_list.html")

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.clients.Appointments.List(r.Context())
		if err != nil {
			s.failPage(w, r, err, s.session.LandingRoute())
			return
		}
		s.render(w, tmpl, s.viewData(r, "Appointments", appointmentsListData{
			Appointments: list,
			Statuses:     appointments.Statuses,
		}))
	}
}

type appointmentFormData struct {
	Appointment appointments.Appointment
	Patients    []patients.Patient
	Vets        []users.User
	Error       string
	Fields      map[string][]string
}

// appointmentFormChoices loads the dropdown data the booking form needs.
// The account listing is administrator-only on the backend; for other
// roles the signed-in veterinarian is the only selectable vet, which
// matches the backend scoping a vet's bookings to themselves.
func (s *Server) appointmentFormChoices(r *http.Request, data *appointmentFormData) error {
	patientList, err := s.clients.Patients.List(r.Context())
	if err != nil {
		return err
	}
	data.Patients = patientList

	userList, err := s.clients.Users.List(r.Context())
	if err != nil {
		apiErr, ok := api.AsError(err)
		if !ok || apiErr.Status != http.StatusForbidden {
			return err
		}
		if current := s.session.CurrentUser(); current != nil && current.Is(users.RoleVeterinarian) {
			data.Vets = []users.User{*current}
		}
		return nil
	}
	for _, u := range userList {
		if u.Role == users.RoleVeterinarian {
			data.Vets = append(data.Vets, u)
		}
	}
	return nil
}

// AppointmentFormHandler renders the booking form
func (s *Server) AppointmentFormHandler() http.HandlerFunc {
	tmpl := parseView("appointment_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		var data appointmentFormData
		if err := s.appointmentFormChoices(r, &data); err != nil {
			s.failPage(w, r, err, s.session.LandingRoute())
			return
		}
		s.render(w, tmpl, s.viewData(r, "Book Appointment", data))
	}
}

// AppointmentCreateHandler books a new appointment
func (s *Server) AppointmentCreateHandler() http.HandlerFunc {
	tmpl := parseView("appointment_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		patientID, _ := strconv.Atoi(r.FormValue("patient"))
		vetID, _ := strconv.Atoi(r.FormValue("vet"))
		when, timeErr := time.ParseInLocation("2006-01-02T15:04", r.FormValue("date_time"), time.Local)

		appointment := appointments.Appointment{
			Patient:  patientID,
			Vet:      vetID,
			DateTime: when,
			Reason:   strings.TrimSpace(r.FormValue("reason")),
			Notes:    strings.TrimSpace(r.FormValue("notes")),
		}

		renderForm := func(message string, fields map[string][]string) {
			data := appointmentFormData{
				Appointment: appointment,
				Error:       message,
				Fields:      fields,
			}
			if err := s.appointmentFormChoices(r, &data); err != nil {
				s.failPage(w, r, err, s.session.LandingRoute())
				return
			}
			s.render(w, tmpl, s.viewData(r, "Book Appointment", data))
		}

		if timeErr != nil {
			renderForm("Enter a valid date and time", nil)
			return
		}

		created, err := s.clients.Appointments.Create(r.Context(), appointment)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				renderForm(apiErr.Message, apiErr.Errors)
				return
			}
			s.failPage(w, r, err, s.session.LandingRoute())
			return
		}

		s.alerts.Success("Appointment booked for " + created.DateTime.Local().Format("Jan 2 at 3:04 PM"))
		http.Redirect(w, r, RouteVetAppointments, http.StatusSeeOther)
	}
}

// AppointmentStatusHandler moves an appointment to a new lifecycle state
func (s *Server) AppointmentStatusHandler() http.HandlerFunc {
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

		status := appointments.Status(r.FormValue("status"))
		valid := false
		for _, known := range appointments.Statuses {
			if status == known {
				valid = true
				break
			}
		}
		if !valid {
			s.alerts.Error("Unknown appointment status")
			http.Redirect(w, r, RouteVetAppointments, http.StatusSeeOther)
			return
		}

		if _, err := s.clients.Appointments.UpdateStatus(r.Context(), id, status); err != nil {
			s.failPage(w, r, err, RouteVetAppointments)
			return
		}

		s.alerts.Success("Appointment marked " + string(status))
		http.Redirect(w, r, RouteVetAppointments, http.StatusSeeOther)
	}
}
