package repository

import (
	"context"

	"cartapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnidadMedidaRepository is the data access contract for units of measure and
// their stored conversion edges. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type UnidadMedidaRepository interface {
	Create(ctx context.Context, u *model.UnidadMedida) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error)
	FindByNombre(ctx context.Context, nombre string) (*model.UnidadMedida, error)
	List(ctx context.Context) ([]model.UnidadMedida, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	CreateConversion(ctx context.Context, c *model.ConversionUnidad) error
	// FindConversionDirecta looks up the stored directed edge origen → destino.
	// Returns gorm.ErrRecordNotFound when no edge is stored in that direction;
	// the reverse edge is never consulted.
	FindConversionDirecta(ctx context.Context, origenID, destinoID uuid.UUID) (*model.ConversionUnidad, error)
}

type unidadRepo struct{ db *gorm.DB }

func NewUnidadMedidaRepository(db *gorm.DB) UnidadMedidaRepository { return &unidadRepo{db: db} }

func (r *unidadRepo) Create(ctx context.Context, u *model.UnidadMedida) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *unidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	var u model.UnidadMedida
	err := r.db.WithContext(ctx).Preload("UnidadBase").First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unidadRepo) FindByNombre(ctx context.Context, nombre string) (*model.UnidadMedida, error) {
	var u model.UnidadMedida
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unidadRepo) List(ctx context.Context) ([]model.UnidadMedida, error) {
	var unidades []model.UnidadMedida
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&unidades).Error
	return unidades, err
}

func (r *unidadRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.UnidadMedida{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *unidadRepo) CreateConversion(ctx context.Context, c *model.ConversionUnidad) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *unidadRepo) FindConversionDirecta(ctx context.Context, origenID, destinoID uuid.UUID) (*model.ConversionUnidad, error) {
	var c model.ConversionUnidad
	err := r.db.WithContext(ctx).
		Where("unidad_origen_id = ? AND unidad_destino_id = ?", origenID, destinoID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
