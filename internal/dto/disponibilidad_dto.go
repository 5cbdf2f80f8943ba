package dto

import "github.com/shopspring/decimal"

type VerificarDisponibilidadRequest struct {
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	ToppingIDs []string        `json:"topping_ids"`
}

// LineaFaltante describes one insufficient ingredient/component/topping line.
// Faltante = Requerido - Disponible, expressed in the stock unit.
type LineaFaltante struct {
	IngredienteID     string          `json:"ingrediente_id"`
	IngredienteNombre string          `json:"ingrediente_nombre"`
	Requerido         decimal.Decimal `json:"requerido"`
	Disponible        decimal.Decimal `json:"disponible"`
	Faltante          decimal.Decimal `json:"faltante"`
	UnidadMedida      string          `json:"unidad_medida,omitempty"`
}

// ComponenteNoDisponible is a promotion component that cannot be fulfilled,
// with nested ingredient-level detail when the component is composite.
type ComponenteNoDisponible struct {
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Motivo         string          `json:"motivo"`
	Faltantes      []LineaFaltante `json:"faltantes,omitempty"`
}

// DisponibilidadResponse is the full availability verdict. Disponible is true
// only when every checked line suffices; a false verdict carries every failing
// line, not just the first one found.
type DisponibilidadResponse struct {
	Disponible  bool                     `json:"disponible"`
	Mensaje     string                   `json:"mensaje,omitempty"`
	Faltantes   []LineaFaltante          `json:"faltantes,omitempty"`
	Componentes []ComponenteNoDisponible `json:"componentes,omitempty"`
}
