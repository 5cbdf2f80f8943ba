package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingrediente is an atomic input: flour, milk, an espresso shot. Costo is the
// cost of one UnidadMedida (its native/stock unit).
//
// ProductoID links an ingredient that mirrors a sellable simple product (the
// espresso sold on its own is also an ingredient of "café con leche"). The
// cascade keeps the mirrored Costo in sync with the product's Costo.
type Ingrediente struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"uniqueIndex;not null"`
	Costo          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UnidadMedidaID *uuid.UUID      `gorm:"type:uuid"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	EsTopping      bool            `gorm:"not null;default:false"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	UnidadMedida *UnidadMedida `gorm:"foreignKey:UnidadMedidaID"`
	Stock        *Stock        `gorm:"foreignKey:IngredienteID"`
}

func (Ingrediente) TableName() string { return "ingredientes" }

// Stock is owned 1:1 by either a simple Producto or an Ingrediente, never
// both. Quantities are expressed in UnidadMedida.
type Stock struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	IngredienteID  *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	StockMinimo    decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	UnidadMedidaID *uuid.UUID      `gorm:"type:uuid"`
	UpdatedAt      time.Time

	UnidadMedida *UnidadMedida `gorm:"foreignKey:UnidadMedidaID"`
}

func (Stock) TableName() string { return "stocks" }
