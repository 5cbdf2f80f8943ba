package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cartapos/internal/apierror"
	"cartapos/internal/model"
	"cartapos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostoService recomputes derived costs from composition, from scratch on
// every call — it keeps no state between calls. A missing ingredient or an
// unresolvable conversion aborts the whole computation; partial sums are
// never returned as the answer.
type CostoService interface {
	// CostoBaseCompuesto sums, over every ingredient line, the ingredient
	// cost times the line quantity converted into the ingredient's native
	// unit.
	CostoBaseCompuesto(ctx context.Context, lineas []model.ProductoIngrediente) (decimal.Decimal, error)
	// CostoExtraToppings sums each topping group's contribution: the mean of
	// the cheapest MaxSeleccion per-topping costs among the group's eligible
	// toppings. A group with no eligible toppings contributes zero.
	CostoExtraToppings(ctx context.Context, asociaciones []model.ProductoGrupoToppings) (decimal.Decimal, error)
	// CostoPromocion derives a promotion's cost: Σ component cost × quantity
	// for fixed promotions, or the per-slot mean of active option costs for
	// configurable ones. The promotion must arrive hydrated.
	CostoPromocion(ctx context.Context, promo *model.Producto) (decimal.Decimal, error)
}

type costoService struct {
	conversion   ConversionService
	ingredientes repository.IngredienteRepository
}

func NewCostoService(conversion ConversionService, ingredientes repository.IngredienteRepository) CostoService {
	return &costoService{conversion: conversion, ingredientes: ingredientes}
}

func (s *costoService) CostoBaseCompuesto(ctx context.Context, lineas []model.ProductoIngrediente) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, linea := range lineas {
		ing := linea.Ingrediente
		if ing == nil {
			cargado, err := s.ingredientes.FindByID(ctx, linea.IngredienteID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return decimal.Zero, apierror.NotFound(fmt.Sprintf("ingrediente %s no encontrado", linea.IngredienteID))
				}
				return decimal.Zero, apierror.Internal("error buscando ingrediente", err)
			}
			ing = cargado
		}

		cantidad := linea.Cantidad
		// Convert into the ingredient's native unit; an ingredient without a
		// declared unit takes the line quantity as-is.
		if ing.UnidadMedidaID != nil {
			convertida, err := s.conversion.Convertir(ctx, linea.UnidadMedidaID, *ing.UnidadMedidaID, cantidad)
			if err != nil {
				return decimal.Zero, err
			}
			cantidad = convertida
		}
		total = total.Add(ing.Costo.Mul(cantidad))
	}
	return total, nil
}

func (s *costoService) CostoExtraToppings(ctx context.Context, asociaciones []model.ProductoGrupoToppings) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, asoc := range asociaciones {
		if asoc.Grupo == nil || asoc.MaxSeleccion <= 0 {
			continue
		}

		// Per-topping candidate cost: the association's quantity converted
		// into the topping's native unit, times the topping's cost. Only
		// active toppings with a unit of measure are eligible.
		var candidatos []decimal.Decimal
		for _, topping := range asoc.Grupo.Ingredientes {
			if !topping.Activo || topping.UnidadMedidaID == nil {
				continue
			}
			cantidad := asoc.CantidadTopping
			if asoc.UnidadMedidaID != nil {
				convertida, err := s.conversion.Convertir(ctx, *asoc.UnidadMedidaID, *topping.UnidadMedidaID, cantidad)
				if err != nil {
					return decimal.Zero, err
				}
				cantidad = convertida
			}
			candidatos = append(candidatos, topping.Costo.Mul(cantidad))
		}
		if len(candidatos) == 0 {
			continue
		}

		// The business models the expected extra as the mean of the cheapest
		// MaxSeleccion eligible choices.
		sort.Slice(candidatos, func(i, j int) bool {
			return candidatos[i].LessThan(candidatos[j])
		})
		n := asoc.MaxSeleccion
		if n > len(candidatos) {
			n = len(candidatos)
		}
		suma := decimal.Zero
		for _, c := range candidatos[:n] {
			suma = suma.Add(c)
		}
		total = total.Add(suma.Div(decimal.NewFromInt(int64(n))))
	}
	return total, nil
}

func (s *costoService) CostoPromocion(ctx context.Context, promo *model.Producto) (decimal.Decimal, error) {
	if promo.Tipo != model.TipoPromocion {
		return decimal.Zero, apierror.InvalidInput(fmt.Sprintf("el producto %s no es una promocion", promo.Nombre))
	}

	// Fixed bill of materials.
	if len(promo.Componentes) > 0 {
		total := decimal.Zero
		for _, comp := range promo.Componentes {
			if comp.Producto == nil {
				return decimal.Zero, apierror.NotFound(fmt.Sprintf("producto %s del componente no encontrado", comp.ProductoID))
			}
			total = total.Add(comp.Producto.Costo.Mul(comp.Cantidad))
		}
		return total, nil
	}

	// Configurable slots: each slot contributes the mean cost of its active
	// options (option product cost + option surcharge).
	total := decimal.Zero
	for _, asignacion := range promo.SlotAsignaciones {
		if asignacion.Slot == nil {
			continue
		}
		suma := decimal.Zero
		activas := 0
		for _, opcion := range asignacion.Slot.Opciones {
			if !opcion.Activo {
				continue
			}
			if opcion.Producto == nil {
				return decimal.Zero, apierror.NotFound(fmt.Sprintf("producto %s de la opcion no encontrado", opcion.ProductoID))
			}
			suma = suma.Add(opcion.Producto.Costo.Add(opcion.CostoExtra))
			activas++
		}
		if activas == 0 {
			continue
		}
		total = total.Add(suma.Div(decimal.NewFromInt(int64(activas))))
	}
	return total, nil
}
