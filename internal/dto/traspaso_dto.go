package dto

type TraspasoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	OrigenID   string `json:"origen_id"   validate:"required,uuid"`
	DestinoID  string `json:"destino_id"  validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type TraspasoResponse struct {
	ID           string `json:"id"`
	ProductoID   string `json:"producto_id"`
	OrigenID     string `json:"origen_id"`
	DestinoID    string `json:"destino_id"`
	Cantidad     int    `json:"cantidad"`
	StockOrigen  int    `json:"stock_origen"`
	StockDestino int    `json:"stock_destino"`
	CreatedAt    string `json:"created_at"`
}
