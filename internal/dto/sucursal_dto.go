package dto

type CrearSucursalRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2"`
	Direccion string `json:"direccion" validate:"omitempty,min=5"`
}
