package service

import (
	"context"
	"errors"
	"fmt"

	"cartapos/internal/apierror"
	"cartapos/internal/dto"
	"cartapos/internal/model"
	"cartapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogoService owns catalog writes: units of measure, conversion edges,
// ingredients and products. A product write settles the full cost triple
// {CostoBase, CostoToppings, Costo} before anything is persisted — a cost
// write is never partial.
type CatalogoService interface {
	CrearUnidad(ctx context.Context, req dto.CrearUnidadRequest) (*dto.UnidadResponse, error)
	CrearConversion(ctx context.Context, req dto.CrearConversionRequest) (*dto.ConversionResponse, error)
	CrearIngrediente(ctx context.Context, req dto.CrearIngredienteRequest) (*dto.IngredienteResponse, error)
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
}

type catalogoService struct {
	unidades     repository.UnidadMedidaRepository
	productos    repository.ProductoRepository
	ingredientes repository.IngredienteRepository
	costos       CostoService
}

func NewCatalogoService(
	unidades repository.UnidadMedidaRepository,
	productos repository.ProductoRepository,
	ingredientes repository.IngredienteRepository,
	costos CostoService,
) CatalogoService {
	return &catalogoService{unidades: unidades, productos: productos, ingredientes: ingredientes, costos: costos}
}

// ── Unidades ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearUnidad(ctx context.Context, req dto.CrearUnidadRequest) (*dto.UnidadResponse, error) {
	// Invariants: equivalence and base reference come together or not at all;
	// a base unit references nothing; a base reference must point to a base
	// unit, so chains of references cannot form.
	if (req.EquivalenciaBase == nil) != (req.UnidadBaseID == nil) {
		return nil, apierror.InvalidInput("equivalencia_base y unidad_base_id deben indicarse juntos")
	}
	if req.EsBase && req.UnidadBaseID != nil {
		return nil, apierror.InvalidInput("una unidad base no puede referenciar otra unidad base")
	}

	u := &model.UnidadMedida{
		Nombre:           req.Nombre,
		Abreviatura:      req.Abreviatura,
		EsConvencional:   req.EsConvencional,
		EsBase:           req.EsBase,
		EquivalenciaBase: req.EquivalenciaBase,
		Activo:           true,
	}
	if req.UnidadBaseID != nil {
		baseID, err := uuid.Parse(*req.UnidadBaseID)
		if err != nil {
			return nil, apierror.InvalidInput("unidad_base_id invalido")
		}
		base, err := s.unidades.FindByID(ctx, baseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound(fmt.Sprintf("unidad base %s no encontrada", baseID))
			}
			return nil, apierror.Internal("error buscando unidad base", err)
		}
		if !base.EsBase {
			return nil, apierror.InvalidInput(fmt.Sprintf("la unidad %s no es una unidad base", base.Nombre))
		}
		if req.EquivalenciaBase.IsNegative() || req.EquivalenciaBase.IsZero() {
			return nil, apierror.InvalidInput("equivalencia_base debe ser mayor que cero")
		}
		u.UnidadBaseID = &baseID
	}

	if err := s.unidades.Create(ctx, u); err != nil {
		return nil, apierror.Conflict("no se pudo crear la unidad (¿nombre o abreviatura duplicados?)")
	}
	return unidadToResponse(u), nil
}

func (s *catalogoService) CrearConversion(ctx context.Context, req dto.CrearConversionRequest) (*dto.ConversionResponse, error) {
	origenID, err := uuid.Parse(req.UnidadOrigenID)
	if err != nil {
		return nil, apierror.InvalidInput("unidad_origen_id invalido")
	}
	destinoID, err := uuid.Parse(req.UnidadDestinoID)
	if err != nil {
		return nil, apierror.InvalidInput("unidad_destino_id invalido")
	}
	if origenID == destinoID {
		return nil, apierror.InvalidInput("una conversion requiere dos unidades distintas")
	}
	if !req.Factor.IsPositive() {
		return nil, apierror.InvalidInput("el factor de conversion debe ser mayor que cero")
	}
	for _, id := range []uuid.UUID{origenID, destinoID} {
		if _, err := s.unidades.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound(fmt.Sprintf("unidad de medida %s no encontrada", id))
			}
			return nil, apierror.Internal("error buscando unidad de medida", err)
		}
	}

	c := &model.ConversionUnidad{
		UnidadOrigenID:  origenID,
		UnidadDestinoID: destinoID,
		Factor:          req.Factor,
	}
	if err := s.unidades.CreateConversion(ctx, c); err != nil {
		return nil, apierror.Conflict("ya existe una conversion para ese par de unidades")
	}
	return &dto.ConversionResponse{
		ID:              c.ID.String(),
		UnidadOrigenID:  c.UnidadOrigenID.String(),
		UnidadDestinoID: c.UnidadDestinoID.String(),
		Factor:          c.Factor,
	}, nil
}

// ── Ingredientes ─────────────────────────────────────────────────────────────

func (s *catalogoService) CrearIngrediente(ctx context.Context, req dto.CrearIngredienteRequest) (*dto.IngredienteResponse, error) {
	if req.Costo.IsNegative() {
		return nil, apierror.InvalidInput("el costo no puede ser negativo")
	}

	ing := &model.Ingrediente{
		Nombre:    req.Nombre,
		Costo:     req.Costo,
		EsTopping: req.EsTopping,
		Activo:    true,
	}
	if req.UnidadMedidaID != nil {
		id, err := uuid.Parse(*req.UnidadMedidaID)
		if err != nil {
			return nil, apierror.InvalidInput("unidad_medida_id invalido")
		}
		ing.UnidadMedidaID = &id
	}
	if req.ProductoID != nil {
		id, err := uuid.Parse(*req.ProductoID)
		if err != nil {
			return nil, apierror.InvalidInput("producto_id invalido")
		}
		// A mirrored ingredient tracks the product's sellable cost.
		p, err := s.productos.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound(fmt.Sprintf("producto %s no encontrado", id))
			}
			return nil, apierror.Internal("error buscando producto", err)
		}
		ing.ProductoID = &id
		ing.Costo = p.Costo
	}
	if req.Stock != nil {
		stock := &model.Stock{
			Cantidad:    req.Stock.Cantidad,
			StockMinimo: req.Stock.StockMinimo,
		}
		if req.Stock.UnidadMedidaID != nil {
			id, err := uuid.Parse(*req.Stock.UnidadMedidaID)
			if err != nil {
				return nil, apierror.InvalidInput("unidad_medida_id de stock invalido")
			}
			stock.UnidadMedidaID = &id
		}
		ing.Stock = stock
	}

	if err := s.ingredientes.Create(ctx, ing); err != nil {
		return nil, apierror.Conflict("no se pudo crear el ingrediente (¿nombre duplicado?)")
	}
	return &dto.IngredienteResponse{
		ID:        ing.ID.String(),
		Nombre:    ing.Nombre,
		Costo:     ing.Costo,
		EsTopping: ing.EsTopping,
		Activo:    ing.Activo,
	}, nil
}

// ── Productos ────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	tipo := model.TipoProducto(req.Tipo)

	p := &model.Producto{
		Nombre:      req.Nombre,
		Codigo:      req.Codigo,
		Descripcion: req.Descripcion,
		Tipo:        tipo,
		Precio:      req.Precio,
		Activo:      true,
	}
	if req.UnidadMedidaID != nil {
		id, err := uuid.Parse(*req.UnidadMedidaID)
		if err != nil {
			return nil, apierror.InvalidInput("unidad_medida_id invalido")
		}
		p.UnidadMedidaID = &id
	}
	if req.Stock != nil {
		stock := &model.Stock{
			Cantidad:    req.Stock.Cantidad,
			StockMinimo: req.Stock.StockMinimo,
		}
		if req.Stock.UnidadMedidaID != nil {
			id, err := uuid.Parse(*req.Stock.UnidadMedidaID)
			if err != nil {
				return nil, apierror.InvalidInput("unidad_medida_id de stock invalido")
			}
			stock.UnidadMedidaID = &id
		}
		p.Stock = stock
	}

	// Pre-flight: resolve composition and settle the cost triple before any
	// row is written. GORM persists the whole aggregate in one transaction.
	switch tipo {
	case model.TipoSimple:
		p.CostoBase = req.CostoBase
	case model.TipoCompuesto:
		lineas, err := s.armarLineas(req.Ingredientes)
		if err != nil {
			return nil, err
		}
		asociaciones, err := s.armarGruposToppings(ctx, req.GruposToppings)
		if err != nil {
			return nil, err
		}
		base, err := s.costos.CostoBaseCompuesto(ctx, lineas)
		if err != nil {
			return nil, err
		}
		toppings, err := s.costos.CostoExtraToppings(ctx, asociaciones)
		if err != nil {
			return nil, err
		}
		p.Ingredientes = lineas
		p.GruposToppings = asociaciones
		p.CostoBase = base
		p.CostoToppings = toppings
	case model.TipoPromocion:
		componentes, costo, err := s.armarComponentes(ctx, req.Componentes)
		if err != nil {
			return nil, err
		}
		p.Componentes = componentes
		p.CostoBase = costo
	default:
		return nil, apierror.InvalidInput(fmt.Sprintf("tipo de producto desconocido: %s", req.Tipo))
	}
	p.Costo = p.CostoBase.Add(p.CostoToppings)

	if err := s.productos.Create(ctx, p); err != nil {
		return nil, apierror.Conflict("no se pudo crear el producto (¿nombre o codigo duplicados?)")
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) armarLineas(reqs []dto.LineaIngredienteRequest) ([]model.ProductoIngrediente, error) {
	if len(reqs) == 0 {
		return nil, apierror.InvalidInput("un producto compuesto requiere al menos un ingrediente")
	}
	lineas := make([]model.ProductoIngrediente, 0, len(reqs))
	for _, r := range reqs {
		ingredienteID, err := uuid.Parse(r.IngredienteID)
		if err != nil {
			return nil, apierror.InvalidInput("ingrediente_id invalido")
		}
		unidadID, err := uuid.Parse(r.UnidadMedidaID)
		if err != nil {
			return nil, apierror.InvalidInput("unidad_medida_id de la linea invalido")
		}
		if !r.Cantidad.IsPositive() {
			return nil, apierror.InvalidInput("la cantidad de ingrediente debe ser mayor que cero")
		}
		lineas = append(lineas, model.ProductoIngrediente{
			IngredienteID:  ingredienteID,
			Cantidad:       r.Cantidad,
			UnidadMedidaID: unidadID,
		})
	}
	return lineas, nil
}

func (s *catalogoService) armarGruposToppings(ctx context.Context, reqs []dto.GrupoToppingsRequest) ([]model.ProductoGrupoToppings, error) {
	asociaciones := make([]model.ProductoGrupoToppings, 0, len(reqs))
	for _, r := range reqs {
		grupoID, err := uuid.Parse(r.GrupoToppingsID)
		if err != nil {
			return nil, apierror.InvalidInput("grupo_toppings_id invalido")
		}
		grupo, err := s.ingredientes.FindGrupoToppingsByID(ctx, grupoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound(fmt.Sprintf("grupo de toppings %s no encontrado", grupoID))
			}
			return nil, apierror.Internal("error buscando grupo de toppings", err)
		}
		asoc := model.ProductoGrupoToppings{
			GrupoToppingsID: grupoID,
			MaxSeleccion:    r.MaxSeleccion,
			CobraExtra:      r.CobraExtra,
			CostoExtra:      r.CostoExtra,
			CantidadTopping: r.CantidadTopping,
			Grupo:           grupo,
		}
		if r.UnidadMedidaID != nil {
			id, err := uuid.Parse(*r.UnidadMedidaID)
			if err != nil {
				return nil, apierror.InvalidInput("unidad_medida_id del grupo invalido")
			}
			asoc.UnidadMedidaID = &id
		}
		asociaciones = append(asociaciones, asoc)
	}
	return asociaciones, nil
}

func (s *catalogoService) armarComponentes(ctx context.Context, reqs []dto.ComponenteRequest) ([]model.PromocionComponente, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, apierror.InvalidInput("una promocion requiere al menos un componente")
	}
	componentes := make([]model.PromocionComponente, 0, len(reqs))
	costo := decimal.Zero
	for _, r := range reqs {
		productoID, err := uuid.Parse(r.ProductoID)
		if err != nil {
			return nil, decimal.Zero, apierror.InvalidInput("producto_id del componente invalido")
		}
		prod, err := s.productos.FindByID(ctx, productoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, apierror.NotFound(fmt.Sprintf("producto %s no encontrado", productoID))
			}
			return nil, decimal.Zero, apierror.Internal("error buscando producto del componente", err)
		}
		componentes = append(componentes, model.PromocionComponente{
			ProductoID: productoID,
			Cantidad:   r.Cantidad,
		})
		costo = costo.Add(prod.Costo.Mul(r.Cantidad))
	}
	return componentes, costo, nil
}

func unidadToResponse(u *model.UnidadMedida) *dto.UnidadResponse {
	resp := &dto.UnidadResponse{
		ID:               u.ID.String(),
		Nombre:           u.Nombre,
		Abreviatura:      u.Abreviatura,
		EsConvencional:   u.EsConvencional,
		EsBase:           u.EsBase,
		EquivalenciaBase: u.EquivalenciaBase,
		Activo:           u.Activo,
	}
	if u.UnidadBaseID != nil {
		id := u.UnidadBaseID.String()
		resp.UnidadBaseID = &id
	}
	return resp
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Codigo:        p.Codigo,
		Tipo:          string(p.Tipo),
		Precio:        p.Precio,
		CostoBase:     p.CostoBase,
		CostoToppings: p.CostoToppings,
		Costo:         p.Costo,
		Activo:        p.Activo,
	}
}
