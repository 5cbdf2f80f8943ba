package dto

import "github.com/shopspring/decimal"

type ActualizarCostoBaseRequest struct {
	CostoBase decimal.Decimal `json:"costo_base" validate:"min=0"`
}

// CascadaResponse reports the outcome of a cost cascade. The promotion id
// list doubles as the outbound event set: callers fan out notifications from
// it instead of the core emitting side effects itself.
type CascadaResponse struct {
	Exito                   bool     `json:"exito"`
	ProductoID              string   `json:"producto_id"`
	PromocionesActualizadas []string `json:"promociones_actualizadas"`
	Mensaje                 string   `json:"mensaje,omitempty"`
}
