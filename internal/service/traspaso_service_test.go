package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTraspasoSvc(stockRepo *stubStockRepo, productoRepo *stubProductoRepo, sucursalRepo *stubSucursalRepo) service.TraspasoService {
	stockSvc := service.NewStockService(stockRepo)
	return service.NewTraspasoService(stockSvc, stockRepo, productoRepo, sucursalRepo)
}

func TestTraspasar_ConservaExistencias(t *testing.T) {
	origenID := uuid.New()
	destinoID := uuid.New()
	libro := nuevoProducto("Rayuela", "100.00", "16")

	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, origenID, 10)
	stockRepo.Set(libro.ID, destinoID, 2)
	svc := buildTraspasoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(origenID, destinoID))

	resp, err := svc.Traspasar(context.Background(), uuid.New(), dto.TraspasoRequest{
		ProductoID: libro.ID.String(),
		OrigenID:   origenID.String(),
		DestinoID:  destinoID.String(),
		Cantidad:   4,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.StockOrigen)
	assert.Equal(t, 6, resp.StockDestino)
	assert.Equal(t, 6, stockRepo.Get(libro.ID, origenID))
	assert.Equal(t, 6, stockRepo.Get(libro.ID, destinoID))

	// La suma total de unidades no cambia con el traspaso.
	assert.Equal(t, 12, stockRepo.Get(libro.ID, origenID)+stockRepo.Get(libro.ID, destinoID))

	require.Len(t, stockRepo.traspasos, 1)
	require.Len(t, stockRepo.movimientos, 2)
	assert.Equal(t, model.MovTraspasoSalida, stockRepo.movimientos[0].Tipo)
	assert.Equal(t, -4, stockRepo.movimientos[0].Cantidad)
	assert.Equal(t, model.MovTraspasoEntrada, stockRepo.movimientos[1].Tipo)
	assert.Equal(t, 4, stockRepo.movimientos[1].Cantidad)
}

func TestTraspasar_CreaRegistroEnDestino(t *testing.T) {
	origenID := uuid.New()
	destinoID := uuid.New()
	dulce := nuevoProducto("Cajeta", "30.00", "16")
	dulce.Tipo = model.TipoDulce

	stockRepo := newStubStockRepo()
	stockRepo.Set(dulce.ID, origenID, 5)
	// destino sin registro previo del producto
	svc := buildTraspasoSvc(stockRepo, newStubProductoRepo(dulce), newStubSucursalRepo(origenID, destinoID))

	resp, err := svc.Traspasar(context.Background(), uuid.New(), dto.TraspasoRequest{
		ProductoID: dulce.ID.String(),
		OrigenID:   origenID.String(),
		DestinoID:  destinoID.String(),
		Cantidad:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.StockOrigen)
	assert.Equal(t, 3, resp.StockDestino)
}

func TestTraspasar_MismaSucursal(t *testing.T) {
	sucursalID := uuid.New()
	libro := nuevoProducto("Ficciones", "150.00", "16")
	svc := buildTraspasoSvc(newStubStockRepo(), newStubProductoRepo(libro), newStubSucursalRepo(sucursalID))

	_, err := svc.Traspasar(context.Background(), uuid.New(), dto.TraspasoRequest{
		ProductoID: libro.ID.String(),
		OrigenID:   sucursalID.String(),
		DestinoID:  sucursalID.String(),
		Cantidad:   1,
	})
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeSolicitudInvalida, apiErr.Code)
}

func TestTraspasar_CantidadNoPositiva(t *testing.T) {
	libro := nuevoProducto("Ficciones", "150.00", "16")
	svc := buildTraspasoSvc(newStubStockRepo(), newStubProductoRepo(libro), newStubSucursalRepo())

	_, err := svc.Traspasar(context.Background(), uuid.New(), dto.TraspasoRequest{
		ProductoID: libro.ID.String(),
		OrigenID:   uuid.New().String(),
		DestinoID:  uuid.New().String(),
		Cantidad:   0,
	})
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeSolicitudInvalida, apiErr.Code)
}

func TestTraspasar_OrigenSinStockSuficiente(t *testing.T) {
	origenID := uuid.New()
	destinoID := uuid.New()
	libro := nuevoProducto("El Aleph", "180.00", "16")

	stockRepo := newStubStockRepo()
	stockRepo.Set(libro.ID, origenID, 2)
	svc := buildTraspasoSvc(stockRepo, newStubProductoRepo(libro), newStubSucursalRepo(origenID, destinoID))

	_, err := svc.Traspasar(context.Background(), uuid.New(), dto.TraspasoRequest{
		ProductoID: libro.ID.String(),
		OrigenID:   origenID.String(),
		DestinoID:  destinoID.String(),
		Cantidad:   5,
	})
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeStockInsuficiente, apiErr.Code)
	assert.Contains(t, apiErr.Message, "El Aleph")

	assert.Equal(t, 2, stockRepo.Get(libro.ID, origenID))
	assert.Equal(t, 0, stockRepo.Get(libro.ID, destinoID))
}

func TestTraspasar_ProductoInexistente(t *testing.T) {
	origenID := uuid.New()
	destinoID := uuid.New()
	svc := buildTraspasoSvc(newStubStockRepo(), newStubProductoRepo(), newStubSucursalRepo(origenID, destinoID))

	_, err := svc.Traspasar(context.Background(), uuid.New(), dto.TraspasoRequest{
		ProductoID: uuid.New().String(),
		OrigenID:   origenID.String(),
		DestinoID:  destinoID.String(),
		Cantidad:   1,
	})
	require.Error(t, err)
	apiErr := apierror.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierror.CodeNoEncontrado, apiErr.Code)
}
