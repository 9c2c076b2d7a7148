package server

// Route path constants
// All portal routes are defined here to ensure consistency and prevent typos
const (
	// Public routes
	RouteLogin    = "/login"
	RouteRegister = "/register"

	// Session routes
	RouteLogout = "/logout"

	// Administrator subtree
	RouteAdmin         = "/admin"
	RouteAdminRoles    = "/admin/roles"
	RouteAdminUsers    = "/admin/users"
	RouteAdminOwners   = "/admin/owners"
	RouteAdminPatients = "/admin/patients"

	// Veterinarian subtree
	RouteVet             = "/vet"
	RouteVetPatients     = "/vet/patients"
	RouteVetAppointments = "/vet/appointments"

	// Receptionist subtree
	RouteReception         = "/reception"
	RouteReceptionOwners   = "/reception/owners"
	RouteReceptionPatients = "/reception/patients"

	// Common protected routes (any authenticated role)
	RouteOwnerCreate        = "/owners/create"
	RouteOwnerEdit          = "/owners/{id}/edit"
	RouteOwnerDelete        = "/owners/{id}/delete"
	RoutePatientCreate      = "/patients/new"
	RoutePatientEdit        = "/patients/{id}/edit"
	RoutePatientDelete      = "/patients/{id}/delete"
	RoutePatientAssignOwner = "/patients/{id}/assign-owner"
	RouteAppointmentCreate  = "/appointments/new"

	RouteUnauthorized = "/unauthorized"
)
