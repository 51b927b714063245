package service_test

import (
	"context"
	"sync"
	"testing"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildApartadoSvc(stockRepo *stubStockRepo, productoRepo *stubProductoRepo, sucursalRepo *stubSucursalRepo) (service.ApartadoService, *stubApartadoRepo) {
	apartadoRepo := newStubApartadoRepo()
	stockSvc := service.NewStockService(stockRepo)
	svc := service.NewApartadoService(apartadoRepo, stockSvc, productoRepo, sucursalRepo)
	return svc, apartadoRepo
}

func crearApartadoRequest(sucursalID uuid.UUID, producto *model.Producto, cantidad int, abonoInicial string) dto.CrearApartadoRequest {
	return dto.CrearApartadoRequest{
		SucursalID:      sucursalID.String(),
		ClienteNombre:   "María López",
		ClienteTelefono: "5512345678",
		FechaLimite:     "2026-12-15",
		Items: []dto.ItemApartadoRequest{{
			ProductoID:     producto.ID.String(),
			Cantidad:       cantidad,
			PrecioUnitario: producto.PrecioVenta,
		}},
		AbonoInicial: dec(abonoInicial),
	}
}

func TestCrearApartado_ReservaStock(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Rayuela", "300.00", "16")

	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, apartadoRepo := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	resp, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 2, "100.00"))
	require.NoError(t, err)

	// La reserva sale del inventario vendible al crear, no al completar.
	assert.Equal(t, 3, stockRepo.Get(libro.ID, sucursalID))
	require.Len(t, stockRepo.movimientos, 1)
	assert.Equal(t, model.MovApartado, stockRepo.movimientos[0].Tipo)
	assert.Equal(t, -2, stockRepo.movimientos[0].Cantidad)

	assert.Equal(t, "600.00", resp.MontoTotal.StringFixed(2))
	assert.Equal(t, "100.00", resp.MontoPagado.StringFixed(2))
	assert.Equal(t, "500.00", resp.MontoPendiente.StringFixed(2))
	assert.Equal(t, string(model.ApartadoActivo), resp.Estado)

	// El abono inicial queda registrado como primer pago.
	require.Len(t, apartadoRepo.abonos, 1)
	assert.Equal(t, "100.00", apartadoRepo.abonos[0].Monto.StringFixed(2))
}

func TestCrearApartado_AbonoInicialExcedeTotal(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Ficciones", "150.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, _ := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	_, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 1, "200.00"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeMontoInvalido, apiErr.Code)
	assert.Equal(t, 5, stockRepo.Get(libro.ID, sucursalID))
}

func TestCrearApartado_FechaLimiteInvalida(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Ficciones", "150.00", "16")
	svc, _ := buildApartadoSvc(newStubStockRepo(), newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	req := crearApartadoRequest(sucursalID, libro, 1, "0")
	req.FechaLimite = "15/12/2026"
	_, err := svc.Crear(context.Background(), uuid.New(), req)
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeSolicitudInvalida, apiErr.Code)
}

func TestCrearApartado_StockInsuficiente(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Pedro Páramo", "200.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 1)
	svc, _ := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	_, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 3, "0"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeStockInsuficiente, apiErr.Code)
	assert.Contains(t, apiErr.Message, "Pedro Páramo")
}

func TestAbonarApartado_ActualizaSaldo(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Rayuela", "300.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, _ := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 1, "100.00"))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := svc.Abonar(context.Background(), id, dec("150.00"))
	require.NoError(t, err)
	assert.Equal(t, "250.00", resp.MontoPagado.StringFixed(2))
	assert.Equal(t, "50.00", resp.MontoPendiente.StringFixed(2))

	// pendiente == total - pagado, siempre.
	assert.True(t, resp.MontoPendiente.Equal(resp.MontoTotal.Sub(resp.MontoPagado)))
}

func TestAbonarApartado_ExcedeSaldo(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Rayuela", "300.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, _ := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 1, "250.00"))
	require.NoError(t, err)

	// Saldo pendiente 50.00: un abono de 60.00 se rechaza, no se recorta.
	_, err = svc.Abonar(context.Background(), uuid.MustParse(creado.ID), dec("60.00"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeMontoInvalido, apiErr.Code)
}

func TestAbonarApartado_MontoNoPositivo(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Rayuela", "300.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, _ := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 1, "0"))
	require.NoError(t, err)

	_, err = svc.Abonar(context.Background(), uuid.MustParse(creado.ID), dec("0"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeMontoInvalido, apiErr.Code)
}

func TestCompletarApartado_ConSaldoPendiente(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Rayuela", "300.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, _ := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 1, "100.00"))
	require.NoError(t, err)

	err = svc.Completar(context.Background(), uuid.MustParse(creado.ID))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeSaldoPendiente, apiErr.Code)
}

func TestCompletarApartado_Liquidado(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Rayuela", "300.00", "16")
	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 5)
	svc, apartadoRepo := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 1, "100.00"))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	_, err = svc.Abonar(context.Background(), id, dec("200.00"))
	require.NoError(t, err)
	require.NoError(t, svc.Completar(context.Background(), id))

	apartado, err := apartadoRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ApartadoCompletado, apartado.Estado)

	// La mercancía ya estaba reservada: completar no mueve inventario.
	assert.Equal(t, 4, stockRepo.Get(libro.ID, sucursalID))

	// COMPLETADO es terminal.
	_, err = svc.Abonar(context.Background(), id, dec("10.00"))
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeTransicionInvalida, apiErr.Code)

	err = svc.Cancelar(context.Background(), id)
	require.Error(t, err)
	apiErr = apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeTransicionInvalida, apiErr.Code)
}

func TestCancelarApartado_RestauraStock(t *testing.T) {
	sucursalID := uuid.New()
	dulce := nuevoProducto("Chocolate abuelita", "45.00", "16")
	dulce.Tipo = model.TipoDulce

	stockRepo := newStubStockRepo()
	stockRepo.Set(dulce.ID, sucursalID, 10)
	svc, apartadoRepo := buildApartadoSvc(stockRepo, newStubProductoRepo(dulce), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, dulce, 4, "50.00"))
	require.NoError(t, err)
	require.Equal(t, 6, stockRepo.Get(dulce.ID, sucursalID))
	id := uuid.MustParse(creado.ID)

	require.NoError(t, svc.Cancelar(context.Background(), id))

	assert.Equal(t, 10, stockRepo.Get(dulce.ID, sucursalID))
	apartado, err := apartadoRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ApartadoCancelado, apartado.Estado)

	// Cancelar dos veces no devuelve la mercancía dos veces.
	err = svc.Cancelar(context.Background(), id)
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeTransicionInvalida, apiErr.Code)
	assert.Equal(t, 10, stockRepo.Get(dulce.ID, sucursalID))
}

func TestCancelarApartado_CancelacionSimultanea(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("El Llano en llamas", "220.00", "16")

	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, sucursalID, 8)
	svc, apartadoRepo := buildApartadoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	creado, err := svc.Crear(context.Background(), uuid.New(), crearApartadoRequest(sucursalID, libro, 3, "100.00"))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// Ambas cancelaciones ven el apartado ACTIVO antes de que cualquiera lo
	// finalice; solo una puede registrar la transición.
	var barrera sync.WaitGroup
	barrera.Add(2)
	apartadoRepo.findTxHook = func() {
		barrera.Done()
		barrera.Wait()
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Cancelar(context.Background(), id)
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		}
	}
	assert.Equal(t, 1, exitos, "solo una cancelación puede prosperar")

	apartadoRepo.findTxHook = nil
	apartado, err := apartadoRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ApartadoCancelado, apartado.Estado)
}
