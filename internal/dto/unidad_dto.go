package dto

import "github.com/shopspring/decimal"

type CrearUnidadRequest struct {
	Nombre           string           `json:"nombre" validate:"required"`
	Abreviatura      *string          `json:"abreviatura"`
	EsConvencional   bool             `json:"es_convencional"`
	EsBase           bool             `json:"es_base"`
	EquivalenciaBase *decimal.Decimal `json:"equivalencia_base"`
	UnidadBaseID     *string          `json:"unidad_base_id"`
}

type UnidadResponse struct {
	ID               string           `json:"id"`
	Nombre           string           `json:"nombre"`
	Abreviatura      *string          `json:"abreviatura,omitempty"`
	EsConvencional   bool             `json:"es_convencional"`
	EsBase           bool             `json:"es_base"`
	EquivalenciaBase *decimal.Decimal `json:"equivalencia_base,omitempty"`
	UnidadBaseID     *string          `json:"unidad_base_id,omitempty"`
	Activo           bool             `json:"activo"`
}

type CrearConversionRequest struct {
	UnidadOrigenID  string          `json:"unidad_origen_id" validate:"required"`
	UnidadDestinoID string          `json:"unidad_destino_id" validate:"required"`
	Factor          decimal.Decimal `json:"factor" validate:"required,gt=0"`
}

type ConversionResponse struct {
	ID              string          `json:"id"`
	UnidadOrigenID  string          `json:"unidad_origen_id"`
	UnidadDestinoID string          `json:"unidad_destino_id"`
	Factor          decimal.Decimal `json:"factor"`
}

// ConvertirResponse is the result of GET /v1/unidades/convertir.
type ConvertirResponse struct {
	UnidadOrigenID  string          `json:"unidad_origen_id"`
	UnidadDestinoID string          `json:"unidad_destino_id"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	Resultado       decimal.Decimal `json:"resultado"`
}
