package service

import (
	"context"
	"fmt"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ApartadoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearApartadoRequest) (*dto.ApartadoResponse, error)
	Abonar(ctx context.Context, id uuid.UUID, monto decimal.Decimal) (*dto.ApartadoResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
	Completar(ctx context.Context, id uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ApartadoResponse, error)
	ListActivos(ctx context.Context, sucursalID uuid.UUID) ([]dto.ApartadoResponse, error)
}

type apartadoService struct {
	repo         repository.ApartadoRepository
	stock        StockService
	productoRepo repository.ProductoRepository
	sucursalRepo repository.SucursalRepository
}

func NewApartadoService(
	repo repository.ApartadoRepository,
	stock StockService,
	productoRepo repository.ProductoRepository,
	sucursalRepo repository.SucursalRepository,
) ApartadoService {
	return &apartadoService{
		repo:         repo,
		stock:        stock,
		productoRepo: productoRepo,
		sucursalRepo: sucursalRepo,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Stock is reserved (decremented) at creation time, not at completion: the
// reserved units leave the sellable pool while the customer pays. All item
// decrements and the apartado record commit in one transaction.

func (s *apartadoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearApartadoRequest) (*dto.ApartadoResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "sucursal_id inválido")
	}
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "sucursal no encontrada")
	}
	fechaLimite, err := time.Parse("2006-01-02", req.FechaLimite)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "fecha_limite inválida, formato YYYY-MM-DD")
	}
	if req.AbonoInicial.IsNegative() {
		return nil, apierror.New(apierror.CodeMontoInvalido, "el abono inicial no puede ser negativo")
	}

	type lineaResuelta struct {
		producto *model.Producto
		cantidad int
		precio   decimal.Decimal
	}

	var lineas []lineaResuelta
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.Newf(apierror.CodeSolicitudInvalida, "producto_id inválido: %s", item.ProductoID)
		}
		if item.Cantidad <= 0 {
			return nil, apierror.New(apierror.CodeSolicitudInvalida, "cantidad debe ser positiva")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.Newf(apierror.CodeNoEncontrado, "producto %s no encontrado", item.ProductoID)
		}
		if p.Estado != model.ProductoActivo {
			return nil, apierror.Newf(apierror.CodeSolicitudInvalida, "producto %s está retirado y no puede apartarse", p.Nombre)
		}
		lineas = append(lineas, lineaResuelta{producto: p, cantidad: item.Cantidad, precio: item.PrecioUnitario})
		total = total.Add(item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}

	total = total.Round(2)
	if req.AbonoInicial.GreaterThan(total) {
		return nil, apierror.New(apierror.CodeMontoInvalido, "el abono inicial excede el total del apartado")
	}

	apartado := model.Apartado{
		SucursalID:      sucursalID,
		UsuarioID:       usuarioID,
		ClienteNombre:   req.ClienteNombre,
		ClienteTelefono: req.ClienteTelefono,
		FechaLimite:     fechaLimite,
		MontoTotal:      total,
		MontoPagado:     req.AbonoInicial,
		MontoPendiente:  total.Sub(req.AbonoInicial),
		Estado:          model.ApartadoActivo,
	}
	for _, l := range lineas {
		apartado.Items = append(apartado.Items, model.ApartadoItem{
			Producto:       model.ProductoRef{Tipo: l.producto.Tipo, ID: l.producto.ID},
			Cantidad:       l.cantidad,
			PrecioUnitario: l.precio,
			Subtotal:       l.precio.Mul(decimal.NewFromInt(int64(l.cantidad))).Round(2),
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &apartado); err != nil {
			return err
		}
		ref := apartado.ID
		for _, l := range lineas {
			_, err := s.stock.AjustarTx(tx, l.producto.ID, sucursalID, -l.cantidad,
				model.MovApartado, fmt.Sprintf("Apartado %s", apartado.ID), &ref)
			if err != nil {
				if e := apierror.AsError(err); e != nil {
					return apierror.Newf(e.Code, "%s: %s", l.producto.Nombre, e.Message)
				}
				return err
			}
		}
		if apartado.MontoPagado.IsPositive() {
			return s.repo.CreateAbonoTx(tx, &model.ApartadoAbono{
				ApartadoID: apartado.ID,
				Monto:      apartado.MontoPagado,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return apartadoToResponse(&apartado), nil
}

// ── Abonar ────────────────────────────────────────────────────────────────────

// State and balance are checked on a row-locked read INSIDE the transaction:
// two concurrent payments serialize, so the cumulative paid amount can never
// slip past the total.
func (s *apartadoService) Abonar(ctx context.Context, id uuid.UUID, monto decimal.Decimal) (*dto.ApartadoResponse, error) {
	if !monto.IsPositive() {
		return nil, apierror.New(apierror.CodeMontoInvalido, "el abono debe ser mayor a cero")
	}

	var apartado *model.Apartado
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		apartado, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			return apierror.New(apierror.CodeNoEncontrado, "apartado no encontrado")
		}
		if apartado.Estado != model.ApartadoActivo {
			return apierror.Newf(apierror.CodeTransicionInvalida,
				"el apartado ya está finalizado (%s)", apartado.Estado)
		}

		// Overpayment is rejected, not clamped.
		nuevoPagado := apartado.MontoPagado.Add(monto)
		if nuevoPagado.GreaterThan(apartado.MontoTotal) {
			return apierror.Newf(apierror.CodeMontoInvalido,
				"el abono excede el saldo pendiente de %s", apartado.MontoPendiente)
		}
		apartado.MontoPagado = nuevoPagado
		apartado.MontoPendiente = apartado.MontoTotal.Sub(nuevoPagado)

		if err := s.repo.CreateAbonoTx(tx, &model.ApartadoAbono{ApartadoID: id, Monto: monto}); err != nil {
			return err
		}
		return s.repo.UpdateMontosTx(tx, apartado)
	})
	if txErr != nil {
		return nil, txErr
	}
	return apartadoToResponse(apartado), nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Only legal from ACTIVO. Restores each item's quantity to the branch where it
// was originally reserved, then flips the state — one transaction. Terminal.
// The state check runs on a row-locked read inside the transaction: of two
// concurrent cancellations, the loser re-reads a finalized record and the
// reservation is restored exactly once.

func (s *apartadoService) Cancelar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		apartado, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return apierror.New(apierror.CodeNoEncontrado, "apartado no encontrado")
		}
		if apartado.Estado != model.ApartadoActivo {
			return apierror.Newf(apierror.CodeTransicionInvalida,
				"el apartado ya está finalizado (%s)", apartado.Estado)
		}

		ref := apartado.ID
		for _, item := range apartado.Items {
			_, err := s.stock.AjustarTx(tx, item.Producto.ID, apartado.SucursalID, item.Cantidad,
				model.MovApartadoCancelado, fmt.Sprintf("Cancelación apartado %s", apartado.ID), &ref)
			if err != nil {
				return err
			}
		}
		apartado.Estado = model.ApartadoCancelado
		return s.repo.UpdateMontosTx(tx, apartado)
	})
}

// ── Completar ─────────────────────────────────────────────────────────────────
// Only legal from ACTIVO with nothing pending. State flip only: the stock was
// already reserved at creation, so completion moves no inventory.

func (s *apartadoService) Completar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		apartado, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return apierror.New(apierror.CodeNoEncontrado, "apartado no encontrado")
		}
		if apartado.Estado != model.ApartadoActivo {
			return apierror.Newf(apierror.CodeTransicionInvalida,
				"el apartado ya está finalizado (%s)", apartado.Estado)
		}
		if apartado.MontoPendiente.IsPositive() {
			return apierror.Newf(apierror.CodeSaldoPendiente,
				"saldo pendiente de %s: el apartado no puede completarse", apartado.MontoPendiente)
		}
		apartado.Estado = model.ApartadoCompletado
		return s.repo.UpdateMontosTx(tx, apartado)
	})
}

func (s *apartadoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ApartadoResponse, error) {
	apartado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "apartado no encontrado")
	}
	return apartadoToResponse(apartado), nil
}

func (s *apartadoService) ListActivos(ctx context.Context, sucursalID uuid.UUID) ([]dto.ApartadoResponse, error) {
	apartados, err := s.repo.ListActivos(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApartadoResponse, 0, len(apartados))
	for i := range apartados {
		out = append(out, *apartadoToResponse(&apartados[i]))
	}
	return out, nil
}

func apartadoToResponse(a *model.Apartado) *dto.ApartadoResponse {
	items := make([]dto.ItemApartadoResponse, 0, len(a.Items))
	for _, item := range a.Items {
		items = append(items, dto.ItemApartadoResponse{
			ProductoID:     item.Producto.ID.String(),
			ProductoTipo:   string(item.Producto.Tipo),
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	return &dto.ApartadoResponse{
		ID:              a.ID.String(),
		SucursalID:      a.SucursalID.String(),
		ClienteNombre:   a.ClienteNombre,
		ClienteTelefono: a.ClienteTelefono,
		FechaLimite:     a.FechaLimite.Format("2006-01-02"),
		MontoTotal:      a.MontoTotal,
		MontoPagado:     a.MontoPagado,
		MontoPendiente:  a.MontoPendiente,
		Estado:          string(a.Estado),
		Items:           items,
		CreatedAt:       a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
