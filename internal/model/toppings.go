package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GrupoToppings is a reusable named set of topping ingredients ("salsas",
// "frutas") that products attach through ProductoGrupoToppings.
type GrupoToppings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Ingredientes []Ingrediente `gorm:"many2many:grupo_toppings_ingredientes"`
}

func (GrupoToppings) TableName() string { return "grupos_toppings" }

// ProductoGrupoToppings attaches a topping group to a product with the
// per-product selection settings and the amount of topping consumed per unit
// sold (CantidadTopping in UnidadMedida).
type ProductoGrupoToppings struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	GrupoToppingsID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaxSeleccion    int             `gorm:"not null;default:1"`
	CobraExtra      bool            `gorm:"not null;default:false"`
	CostoExtra      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CantidadTopping decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	UnidadMedidaID  *uuid.UUID      `gorm:"type:uuid"`

	Grupo        *GrupoToppings `gorm:"foreignKey:GrupoToppingsID"`
	UnidadMedida *UnidadMedida  `gorm:"foreignKey:UnidadMedidaID"`
}

func (ProductoGrupoToppings) TableName() string { return "producto_grupos_toppings" }
