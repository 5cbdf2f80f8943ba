package service

import (
	"context"
	"errors"
	"fmt"

	"cartapos/internal/apierror"
	"cartapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConversionService resolves quantity conversions between units of measure.
//
// Resolution order:
//  1. identity — same unit on both sides, no lookup at all.
//  2. stored direct edge origen → destino (multiply by the stored factor).
//  3. base-unit chain: multiply into the origin's base unit, divide out of
//     the destination's base unit.
//
// A direct edge always wins over the chain, even when both exist and
// disagree; symmetry is never assumed (only the stored direction is used).
type ConversionService interface {
	Convertir(ctx context.Context, origenID, destinoID uuid.UUID, cantidad decimal.Decimal) (decimal.Decimal, error)
}

type conversionService struct {
	unidades repository.UnidadMedidaRepository
}

func NewConversionService(unidades repository.UnidadMedidaRepository) ConversionService {
	return &conversionService{unidades: unidades}
}

func (s *conversionService) Convertir(ctx context.Context, origenID, destinoID uuid.UUID, cantidad decimal.Decimal) (decimal.Decimal, error) {
	if origenID == destinoID {
		return cantidad, nil
	}

	directa, err := s.unidades.FindConversionDirecta(ctx, origenID, destinoID)
	if err == nil {
		return cantidad.Mul(directa.Factor), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, apierror.Internal("error buscando conversion directa", err)
	}

	// No direct edge — fall back to the base-unit chain.
	origen, err := s.unidades.FindByID(ctx, origenID)
	if err != nil {
		return decimal.Zero, unidadNoEncontrada(origenID, err)
	}
	destino, err := s.unidades.FindByID(ctx, destinoID)
	if err != nil {
		return decimal.Zero, unidadNoEncontrada(destinoID, err)
	}

	valor := cantidad
	aplicada := false
	if origen.UnidadBaseID != nil && origen.EquivalenciaBase != nil {
		valor = valor.Mul(*origen.EquivalenciaBase)
		aplicada = true
	}
	if destino.UnidadBaseID != nil && destino.EquivalenciaBase != nil {
		valor = valor.Div(*destino.EquivalenciaBase)
		aplicada = true
	}
	if !aplicada {
		return decimal.Zero, apierror.NotFound(fmt.Sprintf(
			"no existe un camino de conversion entre %s y %s", origen.Nombre, destino.Nombre))
	}
	return valor, nil
}

func unidadNoEncontrada(id uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(fmt.Sprintf("unidad de medida %s no encontrada", id))
	}
	return apierror.Internal("error buscando unidad de medida", err)
}
