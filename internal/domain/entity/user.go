package entity

// Roles válidos en el token. El refugio no persiste usuarios: la identidad llega en el JWT.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleCaretaker  = "caretaker"
	RoleVolunteer  = "volunteer"
)
