package repository

import (
	"context"

	"cartapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository is the data access contract for products and their
// composition graph (ingredient lines, topping groups, promotion components
// and slots).
//
// The ...Tx variants take a live *gorm.DB so the cost cascade can run every
// read and write of one cascade inside a single transaction; callers open it
// via DB().Transaction.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	// FindConComposicion hydrates the full aggregate: unit, stock, ingredient
	// lines (with ingredient, its unit and stock), topping groups (with their
	// toppings), and — for promotions — components and slot assignments.
	FindConComposicion(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	// FindConComposicionTx is FindConComposicion inside a transaction.
	// bloquear=true takes a FOR UPDATE row lock on the product, serializing
	// concurrent cost edits on the same row.
	FindConComposicionTx(tx *gorm.DB, id uuid.UUID, bloquear bool) (*model.Producto, error)
	// FindCompuestosPorIngredienteProductoTx returns every active composite
	// product with an ingredient line whose ingredient mirrors the given
	// product (reverse lookup for cascade step 3).
	FindCompuestosPorIngredienteProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Producto, error)
	// FindPromocionesPorProductosTx returns every active promotion that
	// references any of the given products, via a fixed component or a slot
	// option (reverse lookup for cascade step 4).
	FindPromocionesPorProductosTx(tx *gorm.DB, productoIDs []uuid.UUID) ([]model.Producto, error)
	UpdateCostosTx(tx *gorm.DB, id uuid.UUID, costoBase, costoToppings, costo decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// composicionPreloads lists every relation the cost and stock engines read.
// Kept in one place so the ctx and Tx lookups stay in sync.
func composicionPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("UnidadMedida").
		Preload("Stock.UnidadMedida").
		Preload("Ingredientes.UnidadMedida").
		Preload("Ingredientes.Ingrediente.UnidadMedida").
		Preload("Ingredientes.Ingrediente.Stock.UnidadMedida").
		Preload("GruposToppings.UnidadMedida").
		Preload("GruposToppings.Grupo.Ingredientes.UnidadMedida").
		Preload("GruposToppings.Grupo.Ingredientes.Stock.UnidadMedida").
		Preload("Componentes.Producto.Stock.UnidadMedida").
		Preload("Componentes.Producto.Ingredientes.UnidadMedida").
		Preload("Componentes.Producto.Ingredientes.Ingrediente.UnidadMedida").
		Preload("Componentes.Producto.Ingredientes.Ingrediente.Stock.UnidadMedida").
		Preload("SlotAsignaciones.Slot.Opciones.Producto")
}

func (r *productoRepo) FindConComposicion(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := composicionPreloads(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) FindConComposicionTx(tx *gorm.DB, id uuid.UUID, bloquear bool) (*model.Producto, error) {
	q := tx
	if bloquear {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "productos"}})
	}
	var p model.Producto
	err := composicionPreloads(q).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindCompuestosPorIngredienteProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := composicionPreloads(tx).
		Joins("JOIN producto_ingredientes pi ON pi.producto_id = productos.id").
		Joins("JOIN ingredientes i ON i.id = pi.ingrediente_id").
		Where("i.producto_id = ? AND productos.activo = true", productoID).
		Distinct("productos.*").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindPromocionesPorProductosTx(tx *gorm.DB, productoIDs []uuid.UUID) ([]model.Producto, error) {
	if len(productoIDs) == 0 {
		return nil, nil
	}
	var promos []model.Producto
	err := composicionPreloads(tx).
		Where("productos.tipo = ? AND productos.activo = true", model.TipoPromocion).
		Where(`productos.id IN (SELECT promocion_id FROM promocion_componentes WHERE producto_id IN ?)
		    OR productos.id IN (SELECT pa.promocion_id FROM promocion_slot_asignaciones pa
		                        JOIN promocion_slot_opciones po ON po.slot_id = pa.slot_id
		                        WHERE po.producto_id IN ?)`, productoIDs, productoIDs).
		Find(&promos).Error
	return promos, err
}

func (r *productoRepo) UpdateCostosTx(tx *gorm.DB, id uuid.UUID, costoBase, costoToppings, costo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"costo_base":     costoBase,
		"costo_toppings": costoToppings,
		"costo":          costo,
	}).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
