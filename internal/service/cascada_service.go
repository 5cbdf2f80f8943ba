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

// CascadaService propagates a leaf cost change outward through the
// composition graph: the edited product first, then every composite product
// using it as an ingredient, then every promotion referencing either.
//
// The whole cascade runs inside ONE transaction with the edited row locked
// FOR UPDATE: either every recomputation commits or none does, and two
// concurrent edits of the same product serialize instead of interleaving.
type CascadaService interface {
	ActualizarCostoBase(ctx context.Context, productoID uuid.UUID, nuevoCostoBase decimal.Decimal) (*dto.CascadaResponse, error)
}

type cascadaService struct {
	productos    repository.ProductoRepository
	ingredientes repository.IngredienteRepository
	costos       CostoService
}

func NewCascadaService(
	productos repository.ProductoRepository,
	ingredientes repository.IngredienteRepository,
	costos CostoService,
) CascadaService {
	return &cascadaService{productos: productos, ingredientes: ingredientes, costos: costos}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *cascadaService) ActualizarCostoBase(ctx context.Context, productoID uuid.UUID, nuevoCostoBase decimal.Decimal) (*dto.CascadaResponse, error) {
	resp := &dto.CascadaResponse{
		ProductoID:              productoID.String(),
		PromocionesActualizadas: []string{},
	}

	if nuevoCostoBase.IsNegative() {
		resp.Mensaje = "el costo base no puede ser negativo"
		return resp, apierror.InvalidInput(resp.Mensaje)
	}

	txErr := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		p, err := s.productos.FindConComposicionTx(tx, productoID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound(fmt.Sprintf("producto %s no encontrado", productoID))
			}
			return apierror.Internal("error buscando producto", err)
		}
		if p.Tipo == model.TipoPromocion {
			return apierror.InvalidInput("el costo de una promocion es derivado y no puede editarse directamente")
		}

		// Idempotence: same value, nothing to cascade.
		if p.CostoBase.Equal(nuevoCostoBase) {
			resp.Exito = true
			resp.Mensaje = "costo base sin cambios"
			return nil
		}

		nuevoCosto := nuevoCostoBase.Add(p.CostoToppings)
		if err := s.productos.UpdateCostosTx(tx, p.ID, nuevoCostoBase, p.CostoToppings, nuevoCosto); err != nil {
			return apierror.Internal("error actualizando costo del producto", err)
		}
		// The ingredient mirror must be synced BEFORE loading dependents so
		// their hydrated ingredient lines carry the new cost.
		if err := s.sincronizarEspejo(tx, p.ID, nuevoCosto); err != nil {
			return err
		}

		afectados := []uuid.UUID{p.ID}

		dependientes, err := s.productos.FindCompuestosPorIngredienteProductoTx(tx, p.ID)
		if err != nil {
			return apierror.Internal("error buscando productos dependientes", err)
		}
		for i := range dependientes {
			dep := &dependientes[i]
			// Unit rows are immutable reference data during a cascade, so the
			// conversion lookups inside CostoService need no tx scoping.
			base, err := s.costos.CostoBaseCompuesto(ctx, dep.Ingredientes)
			if err != nil {
				return err
			}
			toppings, err := s.costos.CostoExtraToppings(ctx, dep.GruposToppings)
			if err != nil {
				return err
			}
			costo := base.Add(toppings)
			if err := s.productos.UpdateCostosTx(tx, dep.ID, base, toppings, costo); err != nil {
				return apierror.Internal("error actualizando costo del producto dependiente", err)
			}
			if err := s.sincronizarEspejo(tx, dep.ID, costo); err != nil {
				return err
			}
			afectados = append(afectados, dep.ID)
		}

		// Dependents are settled; only now are promotions recomputed, so no
		// promotion ever aggregates a stale intermediate cost.
		promociones, err := s.productos.FindPromocionesPorProductosTx(tx, afectados)
		if err != nil {
			return apierror.Internal("error buscando promociones afectadas", err)
		}
		for i := range promociones {
			promo := &promociones[i]
			costo, err := s.costos.CostoPromocion(ctx, promo)
			if err != nil {
				return err
			}
			if costo.Equal(promo.Costo) {
				continue
			}
			if err := s.productos.UpdateCostosTx(tx, promo.ID, promo.CostoBase, promo.CostoToppings, costo); err != nil {
				return apierror.Internal("error actualizando costo de la promocion", err)
			}
			resp.PromocionesActualizadas = append(resp.PromocionesActualizadas, promo.ID.String())
		}

		resp.Exito = true
		return nil
	})
	if txErr != nil {
		resp.Exito = false
		resp.Mensaje = txErr.Error()
		if apierror.KindOf(txErr) == apierror.KindInternal {
			return resp, apierror.Internal(fmt.Sprintf("cascada de costos fallida para producto %s", productoID), txErr)
		}
		return resp, txErr
	}
	return resp, nil
}

// sincronizarEspejo updates the ingredient row mirroring a product, when one
// exists. Products not used as ingredients are the common case.
func (s *cascadaService) sincronizarEspejo(tx *gorm.DB, productoID uuid.UUID, costo decimal.Decimal) error {
	espejo, err := s.ingredientes.FindByProductoIDTx(tx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apierror.Internal("error buscando ingrediente espejo", err)
	}
	if err := s.ingredientes.UpdateCostoTx(tx, espejo.ID, costo); err != nil {
		return apierror.Internal("error sincronizando ingrediente espejo", err)
	}
	return nil
}
