package service_test

import (
	"context"
	"errors"

	"cartapos/internal/model"
	"cartapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory UnidadMedidaRepository stub ────────────────────────────────────

type stubUnidadRepo struct {
	unidades     map[uuid.UUID]*model.UnidadMedida
	conversiones map[[2]uuid.UUID]*model.ConversionUnidad
}

func newStubUnidadRepo() *stubUnidadRepo {
	return &stubUnidadRepo{
		unidades:     make(map[uuid.UUID]*model.UnidadMedida),
		conversiones: make(map[[2]uuid.UUID]*model.ConversionUnidad),
	}
}

func (r *stubUnidadRepo) Create(_ context.Context, u *model.UnidadMedida) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existente := range r.unidades {
		if existente.Nombre == u.Nombre {
			return errors.New("duplicate key")
		}
	}
	r.unidades[u.ID] = u
	return nil
}

func (r *stubUnidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	u, ok := r.unidades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUnidadRepo) FindByNombre(_ context.Context, nombre string) (*model.UnidadMedida, error) {
	for _, u := range r.unidades {
		if u.Nombre == nombre {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUnidadRepo) List(_ context.Context) ([]model.UnidadMedida, error) {
	var result []model.UnidadMedida
	for _, u := range r.unidades {
		if u.Activo {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUnidadRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.unidades[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

func (r *stubUnidadRepo) CreateConversion(_ context.Context, c *model.ConversionUnidad) error {
	key := [2]uuid.UUID{c.UnidadOrigenID, c.UnidadDestinoID}
	if _, ok := r.conversiones[key]; ok {
		return errors.New("duplicate key")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.conversiones[key] = c
	return nil
}

func (r *stubUnidadRepo) FindConversionDirecta(_ context.Context, origenID, destinoID uuid.UUID) (*model.ConversionUnidad, error) {
	c, ok := r.conversiones[[2]uuid.UUID{origenID, destinoID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

var _ repository.UnidadMedidaRepository = (*stubUnidadRepo)(nil)

// ── In-memory IngredienteRepository stub ─────────────────────────────────────

type stubIngredienteRepo struct {
	ingredientes map[uuid.UUID]*model.Ingrediente
	stocks       map[uuid.UUID]*model.Stock // keyed by IngredienteID
	grupos       map[uuid.UUID]*model.GrupoToppings
}

func newStubIngredienteRepo() *stubIngredienteRepo {
	return &stubIngredienteRepo{
		ingredientes: make(map[uuid.UUID]*model.Ingrediente),
		stocks:       make(map[uuid.UUID]*model.Stock),
		grupos:       make(map[uuid.UUID]*model.GrupoToppings),
	}
}

func (r *stubIngredienteRepo) Create(_ context.Context, i *model.Ingrediente) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	for _, existente := range r.ingredientes {
		if existente.Nombre == i.Nombre {
			return errors.New("duplicate key")
		}
	}
	r.ingredientes[i.ID] = i
	if i.Stock != nil {
		i.Stock.IngredienteID = &i.ID
		r.stocks[i.ID] = i.Stock
	}
	return nil
}

func (r *stubIngredienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingrediente, error) {
	i, ok := r.ingredientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubIngredienteRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	i, ok := r.ingredientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.Activo = false
	return nil
}

func (r *stubIngredienteRepo) FindByProductoIDTx(_ *gorm.DB, productoID uuid.UUID) (*model.Ingrediente, error) {
	for _, i := range r.ingredientes {
		if i.ProductoID != nil && *i.ProductoID == productoID {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubIngredienteRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	i, ok := r.ingredientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.Costo = costo
	return nil
}

func (r *stubIngredienteRepo) FindStockByIngredienteID(_ context.Context, ingredienteID uuid.UUID) (*model.Stock, error) {
	s, ok := r.stocks[ingredienteID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubIngredienteRepo) FindGrupoToppingsByID(_ context.Context, id uuid.UUID) (*model.GrupoToppings, error) {
	g, ok := r.grupos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

var _ repository.IngredienteRepository = (*stubIngredienteRepo)(nil)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existente := range r.productos {
		if existente.Nombre == p.Nombre {
			return errors.New("duplicate key")
		}
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindConComposicion(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) FindConComposicionTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindCompuestosPorIngredienteProductoTx(_ *gorm.DB, productoID uuid.UUID) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if !p.Activo {
			continue
		}
		for _, linea := range p.Ingredientes {
			if linea.Ingrediente != nil && linea.Ingrediente.ProductoID != nil && *linea.Ingrediente.ProductoID == productoID {
				result = append(result, *p)
				break
			}
		}
	}
	return result, nil
}

func (r *stubProductoRepo) FindPromocionesPorProductosTx(_ *gorm.DB, productoIDs []uuid.UUID) ([]model.Producto, error) {
	referenciado := func(id uuid.UUID) bool {
		for _, pid := range productoIDs {
			if pid == id {
				return true
			}
		}
		return false
	}
	var result []model.Producto
	for _, p := range r.productos {
		if p.Tipo != model.TipoPromocion || !p.Activo {
			continue
		}
		incluida := false
		for _, comp := range p.Componentes {
			if referenciado(comp.ProductoID) {
				incluida = true
				break
			}
		}
		if !incluida {
			for _, asignacion := range p.SlotAsignaciones {
				if asignacion.Slot == nil {
					continue
				}
				for _, opcion := range asignacion.Slot.Opciones {
					if referenciado(opcion.ProductoID) {
						incluida = true
						break
					}
				}
			}
		}
		if incluida {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) UpdateCostosTx(_ *gorm.DB, id uuid.UUID, costoBase, costoToppings, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CostoBase = costoBase
	p.CostoToppings = costoToppings
	p.Costo = costo
	return nil
}

// In-memory stub: runTx detects the nil DB and invokes the callback directly.
func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedUnidad(repo *stubUnidadRepo, nombre, abreviatura string) *model.UnidadMedida {
	u := &model.UnidadMedida{
		ID:     uuid.New(),
		Nombre: nombre,
		EsBase: true,
		Activo: true,
	}
	if abreviatura != "" {
		u.Abreviatura = &abreviatura
	}
	repo.unidades[u.ID] = u
	return u
}

func seedUnidadConBase(repo *stubUnidadRepo, nombre string, base *model.UnidadMedida, equivalencia string) *model.UnidadMedida {
	eq := dec(equivalencia)
	u := &model.UnidadMedida{
		ID:               uuid.New(),
		Nombre:           nombre,
		EquivalenciaBase: &eq,
		UnidadBaseID:     &base.ID,
		UnidadBase:       base,
		Activo:           true,
	}
	repo.unidades[u.ID] = u
	return u
}

func seedConversion(repo *stubUnidadRepo, origen, destino *model.UnidadMedida, factor string) {
	repo.conversiones[[2]uuid.UUID{origen.ID, destino.ID}] = &model.ConversionUnidad{
		ID:              uuid.New(),
		UnidadOrigenID:  origen.ID,
		UnidadDestinoID: destino.ID,
		Factor:          dec(factor),
	}
}

func seedIngrediente(repo *stubIngredienteRepo, nombre string, costo string, unidad *model.UnidadMedida) *model.Ingrediente {
	i := &model.Ingrediente{
		ID:     uuid.New(),
		Nombre: nombre,
		Costo:  dec(costo),
		Activo: true,
	}
	if unidad != nil {
		i.UnidadMedidaID = &unidad.ID
		i.UnidadMedida = unidad
	}
	repo.ingredientes[i.ID] = i
	return i
}

func seedStock(repo *stubIngredienteRepo, ing *model.Ingrediente, cantidad string, unidad *model.UnidadMedida) *model.Stock {
	s := &model.Stock{
		ID:            uuid.New(),
		IngredienteID: &ing.ID,
		Cantidad:      dec(cantidad),
	}
	if unidad != nil {
		s.UnidadMedidaID = &unidad.ID
		s.UnidadMedida = unidad
	}
	ing.Stock = s
	repo.stocks[ing.ID] = s
	return s
}

func seedProductoSimple(repo *stubProductoRepo, nombre string, costoBase string) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		Nombre:    nombre,
		Tipo:      model.TipoSimple,
		Precio:    dec("0"),
		CostoBase: dec(costoBase),
		Costo:     dec(costoBase),
		Activo:    true,
	}
	repo.productos[p.ID] = p
	return p
}
