package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnidadMedida is a unit of measure. Non-base units may declare an equivalence
// to a base unit (EquivalenciaBase + UnidadBaseID are set together); base units
// have neither. Units are never hard-deleted, only deactivated.
type UnidadMedida struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre           string    `gorm:"uniqueIndex;not null"`
	Abreviatura      *string   `gorm:"uniqueIndex"`
	EsConvencional   bool      `gorm:"not null;default:false"`
	EsBase           bool      `gorm:"not null;default:false"`
	EquivalenciaBase *decimal.Decimal `gorm:"type:decimal(20,6)"`
	UnidadBaseID     *uuid.UUID       `gorm:"type:uuid;index"`
	Activo           bool             `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	UnidadBase *UnidadMedida `gorm:"foreignKey:UnidadBaseID"`
}

// TableName overrides GORM's default pluralization.
func (UnidadMedida) TableName() string { return "unidades_medida" }

// ConversionUnidad is a directed conversion edge between two units:
// cantidad_destino = cantidad_origen * Factor.
// Edges are NOT mirrored automatically — the reverse direction must be stored
// as its own row. Deleting either endpoint unit cascades to the edge.
type ConversionUnidad struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadOrigenID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_conversion_par"`
	UnidadDestinoID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_conversion_par"`
	Factor          decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	CreatedAt       time.Time

	UnidadOrigen  *UnidadMedida `gorm:"foreignKey:UnidadOrigenID;constraint:OnDelete:CASCADE"`
	UnidadDestino *UnidadMedida `gorm:"foreignKey:UnidadDestinoID;constraint:OnDelete:CASCADE"`
}

func (ConversionUnidad) TableName() string { return "conversiones_unidad" }
