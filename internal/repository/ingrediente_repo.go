package repository

import (
	"context"

	"cartapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredienteRepository is the data access contract for ingredients and their
// stock rows.
type IngredienteRepository interface {
	Create(ctx context.Context, i *model.Ingrediente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	// FindByProductoIDTx returns the ingredient mirroring the given product,
	// or gorm.ErrRecordNotFound when the product is not used as an ingredient.
	FindByProductoIDTx(tx *gorm.DB, productoID uuid.UUID) (*model.Ingrediente, error)
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error

	FindStockByIngredienteID(ctx context.Context, ingredienteID uuid.UUID) (*model.Stock, error)

	// FindGrupoToppingsByID hydrates a topping group with its toppings and
	// their units/stock.
	FindGrupoToppingsByID(ctx context.Context, id uuid.UUID) (*model.GrupoToppings, error)
}

type ingredienteRepo struct{ db *gorm.DB }

func NewIngredienteRepository(db *gorm.DB) IngredienteRepository { return &ingredienteRepo{db: db} }

func (r *ingredienteRepo) Create(ctx context.Context, i *model.Ingrediente) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ingredienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error) {
	var i model.Ingrediente
	err := r.db.WithContext(ctx).
		Preload("UnidadMedida").
		Preload("Stock.UnidadMedida").
		First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ingredienteRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingrediente{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *ingredienteRepo) FindByProductoIDTx(tx *gorm.DB, productoID uuid.UUID) (*model.Ingrediente, error) {
	var i model.Ingrediente
	err := tx.Where("producto_id = ?", productoID).First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ingredienteRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.Ingrediente{}).Where("id = ?", id).Update("costo", costo).Error
}

func (r *ingredienteRepo) FindGrupoToppingsByID(ctx context.Context, id uuid.UUID) (*model.GrupoToppings, error) {
	var g model.GrupoToppings
	err := r.db.WithContext(ctx).
		Preload("Ingredientes.UnidadMedida").
		Preload("Ingredientes.Stock.UnidadMedida").
		First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *ingredienteRepo) FindStockByIngredienteID(ctx context.Context, ingredienteID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).
		Preload("UnidadMedida").
		Where("ingrediente_id = ?", ingredienteID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
