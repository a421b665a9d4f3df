package entity

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User usuario de la boutique. Se crea en el signup y no se modifica después.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // credencial opaca, solo se compara por igualdad; nunca sale hacia el cliente
	Role     string `json:"role"` // admin, staff
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
