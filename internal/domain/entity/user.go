package entity

import "time"

// Roles del laboratorio.
const (
	RoleAdmin     = "admin"
	RoleAnalyst   = "analista"
	RoleQA        = "supervisor_calidad"
	RoleOperator  = "operario"
	RoleWarehouse = "bodega"
)

// User representa un usuario del sistema con uno o más roles.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Roles        []string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
