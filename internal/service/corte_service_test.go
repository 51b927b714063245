package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCorteSvc() (service.CorteService, *stubCorteRepo, *stubVentaRepo, *stubGastoRepo) {
	corteRepo := newStubCorteRepo()
	ventaRepo := newStubVentaRepo()
	gastoRepo := &stubGastoRepo{}
	svc := service.NewCorteService(corteRepo, ventaRepo, gastoRepo)
	return svc, corteRepo, ventaRepo, gastoRepo
}

func TestAbrirCorte(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()
	usuarioID := uuid.New()

	resp, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "abierto", resp.Estado)
	assert.Equal(t, "500.00", resp.MontoInicial.StringFixed(2))
	assert.Equal(t, "500.00", resp.MontoEsperado.StringFixed(2))
	assert.Nil(t, resp.MontoContado)
	assert.Nil(t, resp.Diferencia)
}

func TestAbrirCorte_DobleApertura(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()
	usuarioID := uuid.New()

	_, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("300.00"),
	})
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeCajaYaAbierta, apiErr.Code)
}

func TestAbrirCorte_FondoNegativo(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("-1.00"),
	})
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeMontoInvalido, apiErr.Code)
}

func TestCorteActiva_TotalesEnVivo(t *testing.T) {
	svc, _, ventaRepo, gastoRepo := buildCorteSvc()
	usuarioID := uuid.New()

	_, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)

	// Actividad posterior a la apertura: los totales se recalculan en cada
	// consulta, no se acumulan en la sesión.
	ventaRepo.sumTotal = dec("1250.00")
	gastoRepo.sum = dec("200.00")

	resp, err := svc.Activa(context.Background(), usuarioID)
	require.NoError(t, err)
	assert.Equal(t, "1250.00", resp.TotalVentas.StringFixed(2))
	assert.Equal(t, "200.00", resp.TotalGastos.StringFixed(2))
	assert.Equal(t, "1550.00", resp.MontoEsperado.StringFixed(2))
}

func TestCorteActiva_SinCajaAbierta(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()

	_, err := svc.Activa(context.Background(), uuid.New())
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeNoEncontrado, apiErr.Code)
}

func TestCerrarCorte_CalculaDiferencia(t *testing.T) {
	svc, _, ventaRepo, gastoRepo := buildCorteSvc()
	usuarioID := uuid.New()

	abierto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)

	ventaRepo.sumTotal = dec("1250.00")
	gastoRepo.sum = dec("200.00")

	// esperado = 500 + 1250 - 200 = 1550; contado 1530 -> faltante de 20.
	resp, err := svc.Cerrar(context.Background(), uuid.MustParse(abierto.ID), dec("1530.00"))
	require.NoError(t, err)
	assert.Equal(t, "cerrado", resp.Estado)
	assert.Equal(t, "1550.00", resp.MontoEsperado.StringFixed(2))
	require.NotNil(t, resp.MontoContado)
	assert.Equal(t, "1530.00", resp.MontoContado.StringFixed(2))
	require.NotNil(t, resp.Diferencia)
	assert.Equal(t, "-20.00", resp.Diferencia.StringFixed(2))
	require.NotNil(t, resp.ClosedAt)
}

func TestCerrarCorte_Sobrante(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()
	usuarioID := uuid.New()

	abierto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)

	resp, err := svc.Cerrar(context.Background(), uuid.MustParse(abierto.ID), dec("512.50"))
	require.NoError(t, err)
	require.NotNil(t, resp.Diferencia)
	assert.True(t, resp.Diferencia.Equal(decimal.RequireFromString("12.50")))
}

func TestCerrarCorte_YaCerrado(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()
	usuarioID := uuid.New()

	abierto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(abierto.ID)

	_, err = svc.Cerrar(context.Background(), id, dec("500.00"))
	require.NoError(t, err)

	_, err = svc.Cerrar(context.Background(), id, dec("500.00"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeCajaYaCerrada, apiErr.Code)
}

func TestCerrarCorte_ContadoNegativo(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()
	usuarioID := uuid.New()

	abierto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID:   uuid.New().String(),
		MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)

	_, err = svc.Cerrar(context.Background(), uuid.MustParse(abierto.ID), dec("-10.00"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeMontoInvalido, apiErr.Code)
}

// Cerrar libera al usuario: puede abrir una sesión nueva.
func TestCorte_ReaperturaTrasCierre(t *testing.T) {
	svc, _, _, _ := buildCorteSvc()
	usuarioID := uuid.New()
	sucursalID := uuid.New().String()

	abierto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID: sucursalID, MontoInicial: dec("500.00"),
	})
	require.NoError(t, err)
	_, err = svc.Cerrar(context.Background(), uuid.MustParse(abierto.ID), dec("500.00"))
	require.NoError(t, err)

	segundo, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCorteRequest{
		SucursalID: sucursalID, MontoInicial: dec("400.00"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, abierto.ID, segundo.ID)
}
