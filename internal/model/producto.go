package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoProducto discriminates the three product kinds of the catalog.
type TipoProducto string

const (
	TipoSimple    TipoProducto = "simple"
	TipoCompuesto TipoProducto = "compuesto"
	TipoPromocion TipoProducto = "promocion"
)

// Producto represents a sellable catalog entry: a simple product, a composite
// product built from ingredient lines, or a promotion built from other
// products (fixed components or configurable slots).
//
// Costo is derived and must always match the composition at the end of any
// write: CostoBase + CostoToppings for simple/compuesto, aggregated from
// components or slots for promotions. The cascade service exists to keep this
// invariant after a leaf cost edit.
type Producto struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"uniqueIndex;not null"`
	Codigo         *int            `gorm:"uniqueIndex"` // optional short code, 0–9999
	Descripcion    *string
	Tipo           TipoProducto    `gorm:"not null;default:'simple'"`
	Precio         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoBase      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoToppings  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Costo          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo         bool            `gorm:"not null;default:true"`
	UnidadMedidaID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	UnidadMedida *UnidadMedida `gorm:"foreignKey:UnidadMedidaID"`
	Stock        *Stock        `gorm:"foreignKey:ProductoID"`

	// compuesto
	Ingredientes   []ProductoIngrediente   `gorm:"foreignKey:ProductoID"`
	GruposToppings []ProductoGrupoToppings `gorm:"foreignKey:ProductoID"`

	// promocion
	Componentes      []PromocionComponente     `gorm:"foreignKey:PromocionID"`
	SlotAsignaciones []PromocionSlotAsignacion `gorm:"foreignKey:PromocionID"`
}

// ProductoIngrediente is one ingredient line of a composite product:
// Cantidad expressed in UnidadMedida, owned by the product.
type ProductoIngrediente struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UnidadMedidaID uuid.UUID       `gorm:"type:uuid;not null"`

	Ingrediente  *Ingrediente  `gorm:"foreignKey:IngredienteID"`
	UnidadMedida *UnidadMedida `gorm:"foreignKey:UnidadMedidaID"`
}

func (ProductoIngrediente) TableName() string { return "producto_ingredientes" }
