package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromocionComponente is one line of a simple promotion's fixed bill of
// materials: Cantidad units of Producto per promotion sold.
type PromocionComponente struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PromocionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PromocionComponente) TableName() string { return "promocion_componentes" }

// PromocionSlot is a named choice point ("Torta") offered by configurable
// promotions. Reusable across promotions via PromocionSlotAsignacion.
type PromocionSlot struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"not null"`
	Activo bool      `gorm:"not null;default:true"`

	Opciones []PromocionSlotOpcion `gorm:"foreignKey:SlotID"`
}

func (PromocionSlot) TableName() string { return "promocion_slots" }

// PromocionSlotOpcion is one selectable product inside a slot, with an
// optional surcharge on top of the product's own cost.
type PromocionSlotOpcion struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SlotID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoExtra decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo     bool            `gorm:"not null;default:true"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PromocionSlotOpcion) TableName() string { return "promocion_slot_opciones" }

// PromocionSlotAsignacion attaches a slot to a promotion. EsOpcional slots may
// be skipped at sale time; exactly one option must be chosen otherwise.
type PromocionSlotAsignacion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PromocionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SlotID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	EsOpcional  bool            `gorm:"not null;default:false"`

	Slot *PromocionSlot `gorm:"foreignKey:SlotID"`
}

func (PromocionSlotAsignacion) TableName() string { return "promocion_slot_asignaciones" }
