package dto

import "github.com/shopspring/decimal"

type CrearIngredienteRequest struct {
	Nombre         string           `json:"nombre" validate:"required"`
	Costo          decimal.Decimal  `json:"costo" validate:"min=0"`
	UnidadMedidaID *string          `json:"unidad_medida_id"`
	ProductoID     *string          `json:"producto_id"`
	EsTopping      bool             `json:"es_topping"`
	Stock          *StockRequest    `json:"stock"`
}

type StockRequest struct {
	Cantidad       decimal.Decimal `json:"cantidad" validate:"min=0"`
	StockMinimo    decimal.Decimal `json:"stock_minimo" validate:"min=0"`
	UnidadMedidaID *string         `json:"unidad_medida_id"`
}

type IngredienteResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Costo          decimal.Decimal `json:"costo"`
	UnidadMedidaID *string         `json:"unidad_medida_id,omitempty"`
	EsTopping      bool            `json:"es_topping"`
	Activo         bool            `json:"activo"`
}

type LineaIngredienteRequest struct {
	IngredienteID  string          `json:"ingrediente_id" validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	UnidadMedidaID string          `json:"unidad_medida_id" validate:"required"`
}

type GrupoToppingsRequest struct {
	GrupoToppingsID string          `json:"grupo_toppings_id" validate:"required"`
	MaxSeleccion    int             `json:"max_seleccion" validate:"required,gt=0"`
	CobraExtra      bool            `json:"cobra_extra"`
	CostoExtra      decimal.Decimal `json:"costo_extra" validate:"min=0"`
	CantidadTopping decimal.Decimal `json:"cantidad_topping" validate:"min=0"`
	UnidadMedidaID  *string         `json:"unidad_medida_id"`
}

type ComponenteRequest struct {
	ProductoID string          `json:"producto_id" validate:"required"`
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
}

type CrearProductoRequest struct {
	Nombre         string                    `json:"nombre" validate:"required"`
	Codigo         *int                      `json:"codigo" validate:"omitempty,min=0,max=9999"`
	Descripcion    *string                   `json:"descripcion"`
	Tipo           string                    `json:"tipo" validate:"required,oneof=simple compuesto promocion"`
	Precio         decimal.Decimal           `json:"precio" validate:"min=0"`
	CostoBase      decimal.Decimal           `json:"costo_base" validate:"min=0"`
	UnidadMedidaID *string                   `json:"unidad_medida_id"`
	Ingredientes   []LineaIngredienteRequest `json:"ingredientes"`
	GruposToppings []GrupoToppingsRequest    `json:"grupos_toppings"`
	Componentes    []ComponenteRequest       `json:"componentes"`
	Stock          *StockRequest             `json:"stock"`
}

type ProductoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Codigo        *int            `json:"codigo,omitempty"`
	Tipo          string          `json:"tipo"`
	Precio        decimal.Decimal `json:"precio"`
	CostoBase     decimal.Decimal `json:"costo_base"`
	CostoToppings decimal.Decimal `json:"costo_toppings"`
	Costo         decimal.Decimal `json:"costo"`
	Activo        bool            `json:"activo"`
}
