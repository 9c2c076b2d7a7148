package server

import (
	"github.com/vetcare/portal/users"
)

// initRoutes wires every portal view behind its guard chain. The subtree a
// route lives under decides the role gate; create/edit/delete actions shared
// by several roles sit behind the plain authentication gate.
func (s *Server) initRoutes() {
	public := s.HTMLMiddleware()
	authenticated := s.ProtectedMiddleware()
	adminOnly := s.ProtectedMiddleware(s.RequireRole(users.RoleAdministrator))
	vetAccess := s.ProtectedMiddleware(s.RequireRole(users.RoleAdministrator, users.RoleVeterinarian))
	receptionAccess := s.ProtectedMiddleware(s.RequireRole(users.RoleReceptionist))

	// Public routes
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), public...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), public...))
	s.RegisterRouteFunc("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), public...))
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmissionHandler(), public...))

	// Session routes
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), public...))

	// Administrator subtree
	s.RegisterRouteFunc("GET "+RouteAdmin, ChainMiddleware(s.DashboardHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminRoles, ChainMiddleware(s.RolesHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminUsers, ChainMiddleware(s.UsersListHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminUsers+"/new", ChainMiddleware(s.UserFormHandler(), adminOnly...))
	s.RegisterRouteFunc("POST "+RouteAdminUsers, ChainMiddleware(s.UserCreateHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminUsers+"/{id}/edit", ChainMiddleware(s.UserEditHandler(), adminOnly...))
	s.RegisterRouteFunc("POST "+RouteAdminUsers+"/{id}/edit", ChainMiddleware(s.UserUpdateHandler(), adminOnly...))
	s.RegisterRouteFunc("POST "+RouteAdminUsers+"/{id}/delete", ChainMiddleware(s.UserDeleteHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminOwners, ChainMiddleware(s.OwnersListHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminOwners+"/{id}", ChainMiddleware(s.OwnerDetailHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminPatients, ChainMiddleware(s.PatientsListHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAdminPatients+"/{id}", ChainMiddleware(s.PatientDetailHandler(), adminOnly...))

	// Veterinarian subtree (administrators retain access)
	s.RegisterRouteFunc("GET "+RouteVet, ChainMiddleware(s.DashboardHandler(), vetAccess...))
	s.RegisterRouteFunc("GET "+RouteVetPatients, ChainMiddleware(s.PatientsListHandler(), vetAccess...))
	s.RegisterRouteFunc("GET "+RouteVetPatients+"/{id}", ChainMiddleware(s.PatientDetailHandler(), vetAccess...))
	s.RegisterRouteFunc("POST "+RouteVetPatients+"/{id}/medical-record", ChainMiddleware(s.MedicalRecordHandler(), vetAccess...))
	s.RegisterRouteFunc("GET "+RouteVetAppointments, ChainMiddleware(s.AppointmentsListHandler(), vetAccess...))
	s.RegisterRouteFunc("POST "+RouteVetAppointments+"/{id}/status", ChainMiddleware(s.AppointmentStatusHandler(), vetAccess...))

	// Receptionist subtree
	s.RegisterRouteFunc("GET "+RouteReception, ChainMiddleware(s.DashboardHandler(), receptionAccess...))
	s.RegisterRouteFunc("GET "+RouteReceptionOwners, ChainMiddleware(s.OwnersListHandler(), receptionAccess...))
	s.RegisterRouteFunc("GET "+RouteReceptionOwners+"/{id}", ChainMiddleware(s.OwnerDetailHandler(), receptionAccess...))
	s.RegisterRouteFunc("GET "+RouteReceptionPatients, ChainMiddleware(s.PatientsListHandler(), receptionAccess...))
	s.RegisterRouteFunc("GET "+RouteReceptionPatients+"/{id}", ChainMiddleware(s.PatientDetailHandler(), receptionAccess...))

	// Common protected routes
	s.RegisterRouteFunc("GET "+RouteOwnerCreate, ChainMiddleware(s.OwnerFormHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RouteOwnerCreate, ChainMiddleware(s.OwnerCreateHandler(), authenticated...))
	s.RegisterRouteFunc("GET "+RouteOwnerEdit, ChainMiddleware(s.OwnerFormHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RouteOwnerEdit, ChainMiddleware(s.OwnerUpdateHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RouteOwnerDelete, ChainMiddleware(s.OwnerDeleteHandler(), authenticated...))
	s.RegisterRouteFunc("GET "+RoutePatientCreate, ChainMiddleware(s.PatientFormHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RoutePatientCreate, ChainMiddleware(s.PatientCreateHandler(), authenticated...))
	s.RegisterRouteFunc("GET "+RoutePatientEdit, ChainMiddleware(s.PatientFormHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RoutePatientEdit, ChainMiddleware(s.PatientUpdateHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RoutePatientDelete, ChainMiddleware(s.PatientDeleteHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RoutePatientAssignOwner, ChainMiddleware(s.PatientAssignOwnerHandler(), adminOnly...))
	s.RegisterRouteFunc("GET "+RouteAppointmentCreate, ChainMiddleware(s.AppointmentFormHandler(), authenticated...))
	s.RegisterRouteFunc("POST "+RouteAppointmentCreate, ChainMiddleware(s.AppointmentCreateHandler(), authenticated...))

	s.RegisterRouteFunc("GET "+RouteUnauthorized, ChainMiddleware(s.UnauthorizedHandler(), authenticated...))

	// Root and fallback
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.RootHandler(), public...))
	s.RegisterRouteFunc("/", ChainMiddleware(s.NotFoundHandler(), public...))
}
