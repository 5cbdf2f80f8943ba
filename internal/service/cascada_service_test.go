package service_test

import (
	"context"
	"testing"

	"cartapos/internal/apierror"
	"cartapos/internal/model"
	"cartapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cascadaFixture seeds the classic chain: espresso (simple, sold on its own)
// is mirrored as an ingredient of "café con leche" (composite), which in turn
// is a component of the breakfast promotion.
type cascadaFixture struct {
	unidadRepo *stubUnidadRepo
	ingRepo    *stubIngredienteRepo
	prodRepo   *stubProductoRepo
	svc        service.CascadaService

	espresso     *model.Producto
	espejo       *model.Ingrediente
	cafeConLeche *model.Producto
	promo        *model.Producto
}

func newCascadaFixture(t *testing.T) *cascadaFixture {
	t.Helper()
	f := &cascadaFixture{
		unidadRepo: newStubUnidadRepo(),
		ingRepo:    newStubIngredienteRepo(),
		prodRepo:   newStubProductoRepo(),
	}
	conversion := service.NewConversionService(f.unidadRepo)
	costos := service.NewCostoService(conversion, f.ingRepo)
	f.svc = service.NewCascadaService(f.prodRepo, f.ingRepo, costos)

	unidad := seedUnidad(f.unidadRepo, "unidad", "u")
	ml := seedUnidad(f.unidadRepo, "mililitro", "ml")

	f.espresso = seedProductoSimple(f.prodRepo, "Espresso", "100")

	f.espejo = seedIngrediente(f.ingRepo, "Espresso (shot)", "100", unidad)
	f.espejo.ProductoID = &f.espresso.ID

	leche := seedIngrediente(f.ingRepo, "Leche", "0.05", ml)

	f.cafeConLeche = &model.Producto{
		ID:        uuid.New(),
		Nombre:    "Cafe con leche",
		Tipo:      model.TipoCompuesto,
		CostoBase: dec("110"), // 100 espresso + 200 ml leche × 0.05
		Costo:     dec("110"),
		Activo:    true,
		Ingredientes: []model.ProductoIngrediente{
			{IngredienteID: f.espejo.ID, Ingrediente: f.espejo, Cantidad: dec("1"), UnidadMedidaID: unidad.ID},
			{IngredienteID: leche.ID, Ingrediente: leche, Cantidad: dec("200"), UnidadMedidaID: ml.ID},
		},
	}
	f.prodRepo.productos[f.cafeConLeche.ID] = f.cafeConLeche

	f.promo = &model.Producto{
		ID:        uuid.New(),
		Nombre:    "Promo desayuno",
		Tipo:      model.TipoPromocion,
		CostoBase: dec("110"),
		Costo:     dec("110"),
		Activo:    true,
		Componentes: []model.PromocionComponente{
			{ProductoID: f.cafeConLeche.ID, Producto: f.cafeConLeche, Cantidad: dec("1")},
		},
	}
	f.prodRepo.productos[f.promo.ID] = f.promo

	return f
}

func TestCascadaCompleta(t *testing.T) {
	f := newCascadaFixture(t)

	resp, err := f.svc.ActualizarCostoBase(context.Background(), f.espresso.ID, dec("150"))
	require.NoError(t, err)
	assert.True(t, resp.Exito)

	// Leaf and its ingredient mirror
	assert.True(t, dec("150").Equal(f.espresso.CostoBase))
	assert.True(t, dec("150").Equal(f.espresso.Costo))
	assert.True(t, dec("150").Equal(f.espejo.Costo))

	// Dependent composite: 150 + 10 de leche
	assert.True(t, dec("160").Equal(f.cafeConLeche.CostoBase), "cafeConLeche=%s", f.cafeConLeche.CostoBase)
	assert.True(t, dec("160").Equal(f.cafeConLeche.Costo))

	// Promotion re-aggregated last, from the settled composite cost
	assert.True(t, dec("160").Equal(f.promo.Costo))
	require.Len(t, resp.PromocionesActualizadas, 1)
	assert.Equal(t, f.promo.ID.String(), resp.PromocionesActualizadas[0])
}

func TestCascadaIdempotente(t *testing.T) {
	f := newCascadaFixture(t)

	resp, err := f.svc.ActualizarCostoBase(context.Background(), f.espresso.ID, dec("100"))
	require.NoError(t, err)
	assert.True(t, resp.Exito)
	assert.Empty(t, resp.PromocionesActualizadas)
	assert.Equal(t, "costo base sin cambios", resp.Mensaje)

	// Nothing downstream moved.
	assert.True(t, dec("110").Equal(f.cafeConLeche.Costo))
	assert.True(t, dec("110").Equal(f.promo.Costo))
}

func TestCascadaNoTocaPromocionesAjenas(t *testing.T) {
	f := newCascadaFixture(t)

	otro := seedProductoSimple(f.prodRepo, "Te", "40")
	ajena := &model.Producto{
		ID:        uuid.New(),
		Nombre:    "Promo merienda",
		Tipo:      model.TipoPromocion,
		CostoBase: dec("40"),
		Costo:     dec("40"),
		Activo:    true,
		Componentes: []model.PromocionComponente{
			{ProductoID: otro.ID, Producto: otro, Cantidad: dec("1")},
		},
	}
	f.prodRepo.productos[ajena.ID] = ajena

	resp, err := f.svc.ActualizarCostoBase(context.Background(), f.espresso.ID, dec("150"))
	require.NoError(t, err)
	assert.True(t, dec("40").Equal(ajena.Costo))
	assert.NotContains(t, resp.PromocionesActualizadas, ajena.ID.String())
}

func TestCascadaCostoNegativo(t *testing.T) {
	f := newCascadaFixture(t)

	resp, err := f.svc.ActualizarCostoBase(context.Background(), f.espresso.ID, dec("-1"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidInput, apierror.KindOf(err))
	assert.False(t, resp.Exito)
	assert.True(t, dec("100").Equal(f.espresso.CostoBase))
}

func TestCascadaPromocionNoEditable(t *testing.T) {
	f := newCascadaFixture(t)

	resp, err := f.svc.ActualizarCostoBase(context.Background(), f.promo.ID, dec("500"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidInput, apierror.KindOf(err))
	assert.False(t, resp.Exito)
}

func TestCascadaProductoInexistente(t *testing.T) {
	f := newCascadaFixture(t)

	_, err := f.svc.ActualizarCostoBase(context.Background(), uuid.New(), dec("10"))
	require.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
}
