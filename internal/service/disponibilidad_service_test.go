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

func newDisponibilidadFixture() (*stubUnidadRepo, *stubIngredienteRepo, *stubProductoRepo, service.DisponibilidadService) {
	unidadRepo := newStubUnidadRepo()
	ingRepo := newStubIngredienteRepo()
	prodRepo := newStubProductoRepo()
	conversion := service.NewConversionService(unidadRepo)
	svc := service.NewDisponibilidadService(prodRepo, ingRepo, conversion)
	return unidadRepo, ingRepo, prodRepo, svc
}

func seedStockProducto(p *model.Producto, cantidad string, unidad *model.UnidadMedida) {
	s := &model.Stock{ID: uuid.New(), ProductoID: &p.ID, Cantidad: dec(cantidad)}
	if unidad != nil {
		s.UnidadMedidaID = &unidad.ID
		s.UnidadMedida = unidad
	}
	p.Stock = s
}

func TestDisponibilidadSimpleConStock(t *testing.T) {
	unidadRepo, _, prodRepo, svc := newDisponibilidadFixture()
	u := seedUnidad(unidadRepo, "unidad", "u")

	p := seedProductoSimple(prodRepo, "Gaseosa", "50")
	seedStockProducto(p, "10", u)

	resp, err := svc.Verificar(context.Background(), p.ID, dec("3"), nil)
	require.NoError(t, err)
	assert.True(t, resp.Disponible)
	assert.Empty(t, resp.Faltantes)
}

func TestDisponibilidadSimpleSinInfoStock(t *testing.T) {
	_, _, prodRepo, svc := newDisponibilidadFixture()
	p := seedProductoSimple(prodRepo, "Gaseosa", "50")

	resp, err := svc.Verificar(context.Background(), p.ID, dec("1"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	assert.Contains(t, resp.Mensaje, "no tiene informacion de stock")
}

func TestDisponibilidadCompuestoDeficitConConversion(t *testing.T) {
	unidadRepo, ingRepo, prodRepo, svc := newDisponibilidadFixture()
	litro := seedUnidad(unidadRepo, "litro", "l")
	ml := seedUnidad(unidadRepo, "mililitro", "ml")
	seedConversion(unidadRepo, litro, ml, "1000")

	leche := seedIngrediente(ingRepo, "Leche", "1", ml)
	seedStock(ingRepo, leche, "1000", ml)

	licuado := &model.Producto{
		ID:     uuid.New(),
		Nombre: "Licuado",
		Tipo:   model.TipoCompuesto,
		Activo: true,
		Ingredientes: []model.ProductoIngrediente{
			{IngredienteID: leche.ID, Ingrediente: leche, Cantidad: dec("0.5"), UnidadMedidaID: litro.ID},
		},
	}
	prodRepo.productos[licuado.ID] = licuado

	// 3 × 0.5 l = 1.5 l = 1500 ml required vs 1000 ml on hand
	resp, err := svc.Verificar(context.Background(), licuado.ID, dec("3"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	require.Len(t, resp.Faltantes, 1)
	faltante := resp.Faltantes[0]
	assert.Equal(t, "Leche", faltante.IngredienteNombre)
	assert.True(t, dec("1500").Equal(faltante.Requerido), "requerido=%s", faltante.Requerido)
	assert.True(t, dec("1000").Equal(faltante.Disponible))
	assert.True(t, dec("500").Equal(faltante.Faltante))
	assert.Equal(t, "ml", faltante.UnidadMedida)
}

func TestDisponibilidadCompuestoReportaTodosLosFaltantes(t *testing.T) {
	unidadRepo, ingRepo, prodRepo, svc := newDisponibilidadFixture()
	g := seedUnidad(unidadRepo, "gramo", "g")

	harina := seedIngrediente(ingRepo, "Harina", "0.002", g)
	seedStock(ingRepo, harina, "100", g)
	azucar := seedIngrediente(ingRepo, "Azucar", "0.003", g)
	seedStock(ingRepo, azucar, "50", g)

	torta := &model.Producto{
		ID:     uuid.New(),
		Nombre: "Torta",
		Tipo:   model.TipoCompuesto,
		Activo: true,
		Ingredientes: []model.ProductoIngrediente{
			{IngredienteID: harina.ID, Ingrediente: harina, Cantidad: dec("300"), UnidadMedidaID: g.ID},
			{IngredienteID: azucar.ID, Ingrediente: azucar, Cantidad: dec("150"), UnidadMedidaID: g.ID},
		},
	}
	prodRepo.productos[torta.ID] = torta

	// Both lines fall short and both must be reported, no early exit.
	resp, err := svc.Verificar(context.Background(), torta.ID, dec("1"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	assert.Len(t, resp.Faltantes, 2)
}

func TestDisponibilidadIngredienteSinStockCuentaComoCero(t *testing.T) {
	unidadRepo, ingRepo, prodRepo, svc := newDisponibilidadFixture()
	g := seedUnidad(unidadRepo, "gramo", "g")

	cacao := seedIngrediente(ingRepo, "Cacao", "0.01", g) // sin fila de stock

	brownie := &model.Producto{
		ID:     uuid.New(),
		Nombre: "Brownie",
		Tipo:   model.TipoCompuesto,
		Activo: true,
		Ingredientes: []model.ProductoIngrediente{
			{IngredienteID: cacao.ID, Ingrediente: cacao, Cantidad: dec("50"), UnidadMedidaID: g.ID},
		},
	}
	prodRepo.productos[brownie.ID] = brownie

	resp, err := svc.Verificar(context.Background(), brownie.ID, dec("1"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	require.Len(t, resp.Faltantes, 1)
	assert.True(t, resp.Faltantes[0].Disponible.IsZero())
	assert.True(t, dec("50").Equal(resp.Faltantes[0].Faltante))
}

func TestDisponibilidadPromocion(t *testing.T) {
	unidadRepo, _, prodRepo, svc := newDisponibilidadFixture()
	u := seedUnidad(unidadRepo, "unidad", "u")

	cafe := seedProductoSimple(prodRepo, "Cafe", "100")
	seedStockProducto(cafe, "10", u)
	medialuna := seedProductoSimple(prodRepo, "Medialuna", "50")
	seedStockProducto(medialuna, "1", u)

	promo := &model.Producto{
		ID:     uuid.New(),
		Nombre: "Promo desayuno",
		Tipo:   model.TipoPromocion,
		Activo: true,
		Componentes: []model.PromocionComponente{
			{ProductoID: cafe.ID, Producto: cafe, Cantidad: dec("1")},
			{ProductoID: medialuna.ID, Producto: medialuna, Cantidad: dec("2")},
		},
	}
	prodRepo.productos[promo.ID] = promo

	// 2 promos → 2 cafes (ok) + 4 medialunas (solo hay 1)
	resp, err := svc.Verificar(context.Background(), promo.ID, dec("2"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	require.Len(t, resp.Componentes, 1)
	comp := resp.Componentes[0]
	assert.Equal(t, "Medialuna", comp.ProductoNombre)
	require.Len(t, comp.Faltantes, 1)
	assert.True(t, dec("3").Equal(comp.Faltantes[0].Faltante))
}

func TestDisponibilidadPromocionSinComponentes(t *testing.T) {
	_, _, prodRepo, svc := newDisponibilidadFixture()

	promo := &model.Producto{
		ID:     uuid.New(),
		Nombre: "Promo vacia",
		Tipo:   model.TipoPromocion,
		Activo: true,
	}
	prodRepo.productos[promo.ID] = promo

	resp, err := svc.Verificar(context.Background(), promo.ID, dec("1"), nil)
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	assert.Contains(t, resp.Mensaje, "no tiene componentes")
}

func TestDisponibilidadToppingsDeficit(t *testing.T) {
	unidadRepo, ingRepo, prodRepo, svc := newDisponibilidadFixture()
	u := seedUnidad(unidadRepo, "unidad", "u")
	g := seedUnidad(unidadRepo, "gramo", "g")

	chocolate := seedIngrediente(ingRepo, "Chocolate", "10", g)
	seedStock(ingRepo, chocolate, "30", g)

	waffle := seedProductoSimple(prodRepo, "Waffle", "80")
	seedStockProducto(waffle, "20", u)
	waffle.GruposToppings = []model.ProductoGrupoToppings{{
		ID:              uuid.New(),
		ProductoID:      waffle.ID,
		MaxSeleccion:    1,
		CantidadTopping: dec("50"),
		UnidadMedidaID:  &g.ID,
		Grupo: &model.GrupoToppings{
			ID:           uuid.New(),
			Nombre:       "Salsas",
			Activo:       true,
			Ingredientes: []model.Ingrediente{*chocolate},
		},
	}}

	// 2 waffles × 50 g = 100 g de chocolate, hay 30 g
	resp, err := svc.Verificar(context.Background(), waffle.ID, dec("2"), []uuid.UUID{chocolate.ID})
	require.NoError(t, err)
	assert.False(t, resp.Disponible)
	require.Len(t, resp.Faltantes, 1)
	assert.Equal(t, "Chocolate", resp.Faltantes[0].IngredienteNombre)
	assert.True(t, dec("70").Equal(resp.Faltantes[0].Faltante))
}

func TestDisponibilidadToppingAjeno(t *testing.T) {
	unidadRepo, _, prodRepo, svc := newDisponibilidadFixture()
	u := seedUnidad(unidadRepo, "unidad", "u")

	p := seedProductoSimple(prodRepo, "Gaseosa", "50")
	seedStockProducto(p, "10", u)

	_, err := svc.Verificar(context.Background(), p.ID, dec("1"), []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidInput, apierror.KindOf(err))
}

func TestDisponibilidadCantidadInvalida(t *testing.T) {
	_, _, prodRepo, svc := newDisponibilidadFixture()
	p := seedProductoSimple(prodRepo, "Gaseosa", "50")

	_, err := svc.Verificar(context.Background(), p.ID, dec("0"), nil)
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidInput, apierror.KindOf(err))
}

func TestDisponibilidadProductoInexistente(t *testing.T) {
	_, _, _, svc := newDisponibilidadFixture()

	_, err := svc.Verificar(context.Background(), uuid.New(), dec("1"), nil)
	require.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
}
