package server

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/owners"
	"github.com/vetcare/portal/patients"
)

// patientsListRoute is where patient actions return to for the current role
func (s *Server) patientsListRoute() string {
	base := s.session.LandingRoute()
	switch base {
	case RouteAdmin, RouteVet, RouteReception:
		return base + "/patients"
	default:
		return base
	}
}

type patientsListData struct {
	Patients []patients.Patient
	Query    string
}

// PatientsListHandler renders the patient roster. A ?query= parameter
// switches the listing to the backend's search endpoint.
func (s *Server) PatientsListHandler() http.HandlerFunc {
	tmpl := parseView("patients_list.html")

	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))

		var list []patients.Patient
		var err error
		if query != "" {
			list, err = s.clients.Patients.Search(r.Context(), query)
		} else {
			list, err = s.clients.Patients.List(r.Context())
		}
		if err != nil {
			s.failPage(w, r, err, s.session.LandingRoute())
			return
		}

		s.render(w, tmpl, s.viewData(r, "Patients", patientsListData{Patients: list, Query: query}))
	}
}

type patientDetailData struct {
	Patient   *patients.Patient
	Owners    []owners.Owner
	CanEdit   bool // medical record form shown only on the veterinarian subtree
	CanAssign bool // owner reassignment is an administrator action
}

// PatientDetailHandler renders one patient's file. On the veterinarian
// subtree the medical record is editable in place; on the administrator
// subtree the owner can be reassigned.
func (s *Server) PatientDetailHandler() http.HandlerFunc {
	tmpl := parseView("patient_detail.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		patient, err := s.clients.Patients.Get(r.Context(), id)
		if err != nil {
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}

		data := patientDetailData{
			Patient:   patient,
			CanEdit:   strings.HasPrefix(r.URL.Path, RouteVet+"/"),
			CanAssign: strings.HasPrefix(r.URL.Path, RouteAdmin+"/"),
		}
		if data.CanAssign {
			if ownerList, err := s.clients.Owners.List(r.Context()); err == nil {
				data.Owners = ownerList
			}
		}

		s.render(w, tmpl, s.viewData(r, patient.Name, data))
	}
}

type patientFormData struct {
	Patient patients.Patient
	Owners  []owners.Owner
	Action  string
	Error   string
	Fields  map[string][]string
}

// PatientFormHandler renders the create form, or the edit form when the
// route carries an id
func (s *Server) PatientFormHandler() http.HandlerFunc {
	tmpl := parseView("patient_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := patientFormData{Action: RoutePatientCreate}

		if raw := r.PathValue("id"); raw != "" {
			id, ok := pathID(r)
			if !ok {
				s.NotFoundHandler()(w, r)
				return
			}
			patient, err := s.clients.Patients.Get(r.Context(), id)
			if err != nil {
				s.failPage(w, r, err, s.patientsListRoute())
				return
			}
			data.Patient = *patient
			data.Action = "/patients/" + raw + "/edit"
		}

		ownerList, err := s.clients.Owners.List(r.Context())
		if err != nil {
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}
		data.Owners = ownerList

		s.render(w, tmpl, s.viewData(r, "Patient", data))
	}
}

func patientFromForm(r *http.Request) patients.Patient {
	ownerID, _ := strconv.Atoi(r.FormValue("owner"))
	return patients.Patient{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Type:      r.FormValue("type"),
		Breed:     strings.TrimSpace(r.FormValue("breed")),
		BirthDate: r.FormValue("birth_date"),
		Weight:    strings.TrimSpace(r.FormValue("weight")),
		Sex:       r.FormValue("sex"),
		Owner:     ownerID,
	}
}

// renderPatientForm re-renders the form with the submitted values and the
// backend's validation errors
func (s *Server) renderPatientForm(w http.ResponseWriter, r *http.Request, tmpl *template.Template, patient patients.Patient, action, message string, fields map[string][]string) {
	data := patientFormData{
		Patient: patient,
		Action:  action,
		Error:   message,
		Fields:  fields,
	}
	if ownerList, err := s.clients.Owners.List(r.Context()); err == nil {
		data.Owners = ownerList
	}
	s.render(w, tmpl, s.viewData(r, "Patient", data))
}

// PatientCreateHandler saves a new patient
func (s *Server) PatientCreateHandler() http.HandlerFunc {
	tmpl := parseView("patient_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		patient := patientFromForm(r)

		created, err := s.clients.Patients.Create(r.Context(), patient)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				s.renderPatientForm(w, r, tmpl, patient, RoutePatientCreate, apiErr.Message, apiErr.Errors)
				return
			}
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}

		s.alerts.Success("Patient " + created.Name + " created")
		http.Redirect(w, r, s.patientsListRoute(), http.StatusSeeOther)
	}
}

// PatientUpdateHandler saves edits to an existing patient
func (s *Server) PatientUpdateHandler() http.HandlerFunc {
	tmpl := parseView("patient_form.html")

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
		patient := patientFromForm(r)
		patient.ID = id

		updated, err := s.clients.Patients.Update(r.Context(), id, patient)
		if err != nil {
			if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusBadRequest {
				s.renderPatientForm(w, r, tmpl, patient, r.URL.Path, apiErr.Message, apiErr.Errors)
				return
			}
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}

		s.alerts.Success("Patient " + updated.Name + " updated")
		http.Redirect(w, r, s.patientsListRoute(), http.StatusSeeOther)
	}
}

// PatientDeleteHandler removes a patient record
func (s *Server) PatientDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		if err := s.clients.Patients.Delete(r.Context(), id); err != nil {
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}

		s.alerts.Success("Patient deleted")
		http.Redirect(w, r, s.patientsListRoute(), http.StatusSeeOther)
	}
}

// PatientAssignOwnerHandler links a patient to an owner record
func (s *Server) PatientAssignOwnerHandler() http.HandlerFunc {
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
		ownerID, err := strconv.Atoi(r.FormValue("owner"))
		if err != nil || ownerID <= 0 {
			s.alerts.Error("Choose an owner to assign")
			http.Redirect(w, r, s.patientsListRoute(), http.StatusSeeOther)
			return
		}

		updated, err := s.clients.Patients.AssignOwner(r.Context(), id, ownerID)
		if err != nil {
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}

		s.alerts.Success("Owner assigned to " + updated.Name)
		http.Redirect(w, r, s.patientsListRoute(), http.StatusSeeOther)
	}
}

// MedicalRecordHandler saves the veterinarian's weight and notes update
func (s *Server) MedicalRecordHandler() http.HandlerFunc {
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

		record := patients.MedicalRecord{
			Weight: strings.TrimSpace(r.FormValue("weight")),
			Notes:  strings.TrimSpace(r.FormValue("notes")),
		}

		updated, err := s.clients.Patients.UpdateMedicalRecord(r.Context(), id, record)
		if err != nil {
			s.failPage(w, r, err, s.patientsListRoute())
			return
		}

		s.alerts.Success("Medical record for " + updated.Name + " updated")
		http.Redirect(w, r, RouteVetPatients+"/"+strconv.Itoa(id), http.StatusSeeOther)
	}
}
