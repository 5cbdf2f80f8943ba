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

// DisponibilidadService answers "can we fulfill this sale?" by walking the
// product's composition: promotion components recursively, composite products
// per ingredient line, simple products against their own stock, plus the
// selected toppings overlay.
//
// Insufficient stock is a normal, structured negative result — never an
// error. Errors are reserved for missing records, malformed selections and
// unresolvable conversions. Checks are read-only: stock is never decremented
// here.
type DisponibilidadService interface {
	Verificar(ctx context.Context, productoID uuid.UUID, cantidad decimal.Decimal, toppingIDs []uuid.UUID) (*dto.DisponibilidadResponse, error)
}

type disponibilidadService struct {
	productos    repository.ProductoRepository
	ingredientes repository.IngredienteRepository
	conversion   ConversionService
}

func NewDisponibilidadService(
	productos repository.ProductoRepository,
	ingredientes repository.IngredienteRepository,
	conversion ConversionService,
) DisponibilidadService {
	return &disponibilidadService{productos: productos, ingredientes: ingredientes, conversion: conversion}
}

func (s *disponibilidadService) Verificar(ctx context.Context, productoID uuid.UUID, cantidad decimal.Decimal, toppingIDs []uuid.UUID) (*dto.DisponibilidadResponse, error) {
	if !cantidad.IsPositive() {
		return nil, apierror.InvalidInput("la cantidad a vender debe ser mayor que cero")
	}

	p, err := s.productos.FindConComposicion(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("producto %s no encontrado", productoID))
		}
		return nil, apierror.Internal("error buscando producto", err)
	}

	if p.Tipo == model.TipoPromocion {
		return s.verificarPromocion(ctx, p, cantidad)
	}
	return s.verificarVenta(ctx, p, cantidad, toppingIDs)
}

// ── Promotion branch ─────────────────────────────────────────────────────────

func (s *disponibilidadService) verificarPromocion(ctx context.Context, promo *model.Producto, cantidad decimal.Decimal) (*dto.DisponibilidadResponse, error) {
	if len(promo.Componentes) == 0 {
		return &dto.DisponibilidadResponse{
			Disponible: false,
			Mensaje:    fmt.Sprintf("la promocion %s no tiene componentes con informacion de stock", promo.Nombre),
		}, nil
	}

	resp := &dto.DisponibilidadResponse{Disponible: true}
	for _, comp := range promo.Componentes {
		if comp.Producto == nil {
			return nil, apierror.NotFound(fmt.Sprintf("producto %s del componente no encontrado", comp.ProductoID))
		}
		requerido := comp.Cantidad.Mul(cantidad)
		ok, faltantes, motivo, err := s.verificarProducto(ctx, comp.Producto, requerido)
		if err != nil {
			return nil, err
		}
		if !ok {
			resp.Disponible = false
			resp.Componentes = append(resp.Componentes, dto.ComponenteNoDisponible{
				ProductoID:     comp.Producto.ID.String(),
				ProductoNombre: comp.Producto.Nombre,
				Motivo:         motivo,
				Faltantes:      faltantes,
			})
		}
	}
	if !resp.Disponible {
		resp.Mensaje = "stock insuficiente para uno o mas componentes de la promocion"
	}
	return resp, nil
}

// ── Simple / composite branch ────────────────────────────────────────────────

func (s *disponibilidadService) verificarVenta(ctx context.Context, p *model.Producto, cantidad decimal.Decimal, toppingIDs []uuid.UUID) (*dto.DisponibilidadResponse, error) {
	ok, faltantes, motivo, err := s.verificarProducto(ctx, p, cantidad)
	if err != nil {
		return nil, err
	}
	resp := &dto.DisponibilidadResponse{Disponible: ok, Faltantes: faltantes}
	if !ok {
		resp.Mensaje = motivo
	}

	if len(toppingIDs) > 0 {
		faltantesToppings, err := s.verificarToppings(ctx, p, cantidad, toppingIDs)
		if err != nil {
			return nil, err
		}
		if len(faltantesToppings) > 0 {
			resp.Disponible = false
			resp.Faltantes = append(resp.Faltantes, faltantesToppings...)
			if resp.Mensaje == "" {
				resp.Mensaje = "stock insuficiente para uno o mas toppings seleccionados"
			}
		}
	}
	return resp, nil
}

// verificarProducto checks one product's stock sufficiency for the given
// required quantity: its own stock when it has no ingredient lines, otherwise
// every line is checked and every deficit reported (no early exit).
func (s *disponibilidadService) verificarProducto(ctx context.Context, p *model.Producto, requerido decimal.Decimal) (bool, []dto.LineaFaltante, string, error) {
	if len(p.Ingredientes) == 0 {
		if p.Stock == nil {
			return false, nil, fmt.Sprintf("el producto %s no tiene informacion de stock", p.Nombre), nil
		}
		if p.Stock.Cantidad.LessThan(requerido) {
			linea := dto.LineaFaltante{
				IngredienteID:     p.ID.String(),
				IngredienteNombre: p.Nombre,
				Requerido:         requerido,
				Disponible:        p.Stock.Cantidad,
				Faltante:          requerido.Sub(p.Stock.Cantidad),
				UnidadMedida:      nombreUnidad(p.Stock.UnidadMedida),
			}
			return false, []dto.LineaFaltante{linea}, "stock insuficiente", nil
		}
		return true, nil, "", nil
	}

	var faltantes []dto.LineaFaltante
	for _, linea := range p.Ingredientes {
		ing := linea.Ingrediente
		if ing == nil {
			cargado, err := s.ingredientes.FindByID(ctx, linea.IngredienteID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return false, nil, "", apierror.NotFound(fmt.Sprintf("ingrediente %s no encontrado", linea.IngredienteID))
				}
				return false, nil, "", apierror.Internal("error buscando ingrediente", err)
			}
			ing = cargado
		}

		requeridoLinea := linea.Cantidad.Mul(requerido)
		stock, err := s.stockDeIngrediente(ctx, ing)
		if err != nil {
			return false, nil, "", err
		}

		disponible := decimal.Zero
		unidad := ""
		if stock != nil {
			disponible = stock.Cantidad
			unidad = nombreUnidad(stock.UnidadMedida)
			// Compare in the stock unit; conversion only when the units differ.
			if stock.UnidadMedidaID != nil && linea.UnidadMedidaID != *stock.UnidadMedidaID {
				requeridoLinea, err = s.conversion.Convertir(ctx, linea.UnidadMedidaID, *stock.UnidadMedidaID, requeridoLinea)
				if err != nil {
					return false, nil, "", err
				}
			}
		}
		if disponible.LessThan(requeridoLinea) {
			faltantes = append(faltantes, dto.LineaFaltante{
				IngredienteID:     ing.ID.String(),
				IngredienteNombre: ing.Nombre,
				Requerido:         requeridoLinea,
				Disponible:        disponible,
				Faltante:          requeridoLinea.Sub(disponible),
				UnidadMedida:      unidad,
			})
		}
	}
	if len(faltantes) > 0 {
		return false, faltantes, "stock insuficiente", nil
	}
	return true, nil, "", nil
}

// ── Toppings overlay ─────────────────────────────────────────────────────────

func (s *disponibilidadService) verificarToppings(ctx context.Context, p *model.Producto, cantidad decimal.Decimal, toppingIDs []uuid.UUID) ([]dto.LineaFaltante, error) {
	if len(p.GruposToppings) == 0 {
		return nil, apierror.InvalidInput(fmt.Sprintf("el producto %s no tiene grupos de toppings disponibles", p.Nombre))
	}

	var faltantes []dto.LineaFaltante
	for _, toppingID := range toppingIDs {
		asoc, topping := buscarTopping(p.GruposToppings, toppingID)
		if topping == nil {
			return nil, apierror.InvalidInput(fmt.Sprintf("el topping %s no pertenece a ningun grupo del producto", toppingID))
		}

		requerido := asoc.CantidadTopping.Mul(cantidad)
		stock, err := s.stockDeIngrediente(ctx, topping)
		if err != nil {
			return nil, err
		}

		disponible := decimal.Zero
		unidad := ""
		if stock != nil {
			disponible = stock.Cantidad
			unidad = nombreUnidad(stock.UnidadMedida)
			if asoc.UnidadMedidaID != nil && stock.UnidadMedidaID != nil && *asoc.UnidadMedidaID != *stock.UnidadMedidaID {
				requerido, err = s.conversion.Convertir(ctx, *asoc.UnidadMedidaID, *stock.UnidadMedidaID, requerido)
				if err != nil {
					return nil, err
				}
			}
		}
		if disponible.LessThan(requerido) {
			faltantes = append(faltantes, dto.LineaFaltante{
				IngredienteID:     topping.ID.String(),
				IngredienteNombre: topping.Nombre,
				Requerido:         requerido,
				Disponible:        disponible,
				Faltante:          requerido.Sub(disponible),
				UnidadMedida:      unidad,
			})
		}
	}
	return faltantes, nil
}

// buscarTopping locates the group association containing the topping on this
// product, and the topping ingredient itself.
func buscarTopping(grupos []model.ProductoGrupoToppings, toppingID uuid.UUID) (*model.ProductoGrupoToppings, *model.Ingrediente) {
	for i := range grupos {
		asoc := &grupos[i]
		if asoc.Grupo == nil {
			continue
		}
		for j := range asoc.Grupo.Ingredientes {
			if asoc.Grupo.Ingredientes[j].ID == toppingID {
				return asoc, &asoc.Grupo.Ingredientes[j]
			}
		}
	}
	return nil, nil
}

// stockDeIngrediente resolves an ingredient's stock row, tolerating both a
// hydrated aggregate and a lazy lookup. No stock row means nothing in stock.
func (s *disponibilidadService) stockDeIngrediente(ctx context.Context, ing *model.Ingrediente) (*model.Stock, error) {
	if ing.Stock != nil {
		return ing.Stock, nil
	}
	stock, err := s.ingredientes.FindStockByIngredienteID(ctx, ing.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierror.Internal("error buscando stock del ingrediente", err)
	}
	return stock, nil
}

func nombreUnidad(u *model.UnidadMedida) string {
	if u == nil {
		return ""
	}
	if u.Abreviatura != nil {
		return *u.Abreviatura
	}
	return u.Nombre
}
