package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol is the closed role list. Free-form permission strings are not allowed;
// anything outside this list is rejected at the boundary.
type Rol string

const (
	RolCajero        Rol = "cajero"
	RolSupervisor    Rol = "supervisor"
	RolAdministrador Rol = "administrador"
)

// RolValido reports whether r belongs to the closed role list.
func RolValido(r Rol) bool {
	switch r {
	case RolCajero, RolSupervisor, RolAdministrador:
		return true
	}
	return false
}

// Usuario stores system users with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          Rol       `gorm:"type:varchar(20);not null"`
	// SucursalID restricts a cashier to one branch; nil = all branches.
	SucursalID *uuid.UUID `gorm:"type:uuid"`
	Activo     bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
