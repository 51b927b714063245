package service

import (
	"context"
	"fmt"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	stock        StockService
	productoRepo repository.ProductoRepository
	sucursalRepo repository.SucursalRepository
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	stock StockService,
	productoRepo repository.ProductoRepository,
	sucursalRepo repository.SucursalRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		stock:        stock,
		productoRepo: productoRepo,
		sucursalRepo: sucursalRepo,
		dispatcher:   dispatcher,
	}
}

var (
	cien = decimal.NewFromInt(100)
	uno  = decimal.NewFromInt(1)
)

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. Resolve products and compute per-line price/IVA/discount (pre-flight).
//  2. BEGIN TX: decrement stock per line via the ledger (row-locked, so the
//     availability check and the decrement are the same atomic step), create
//     venta + items.
//  3. COMMIT.
//  4. (async) dispatch ticket notification — fire & forget, never rolls back
//     the committed sale.

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "sucursal_id inválido")
	}
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, apierror.New(apierror.CodeNoEncontrado, "sucursal no encontrada")
	}
	if req.DescuentoPct.IsNegative() || req.DescuentoPct.GreaterThan(cien) {
		return nil, apierror.New(apierror.CodeSolicitudInvalida, "descuento_pct fuera de rango")
	}

	type lineaResuelta struct {
		producto *model.Producto
		cantidad int
		// precios unitarios
		base      decimal.Decimal
		iva       decimal.Decimal
		descuento decimal.Decimal
	}

	var lineas []lineaResuelta
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
			return nil, apierror.Newf(apierror.CodeSolicitudInvalida, "producto %s está retirado y no puede venderse", p.Nombre)
		}

		// descontado = lista * (1 - desc/100); base = descontado / (1 + iva/100)
		descontado := p.PrecioVenta.Mul(uno.Sub(req.DescuentoPct.Div(cien)))
		base := descontado.Div(uno.Add(p.IVAPct.Div(cien)))
		lineas = append(lineas, lineaResuelta{
			producto:  p,
			cantidad:  item.Cantidad,
			base:      base,
			iva:       descontado.Sub(base),
			descuento: p.PrecioVenta.Sub(descontado),
		})
	}

	subtotal := decimal.Zero
	ivaTotal := decimal.Zero
	descuentoTotal := decimal.Zero
	total := decimal.Zero
	for _, l := range lineas {
		qty := decimal.NewFromInt(int64(l.cantidad))
		subtotal = subtotal.Add(l.base.Mul(qty))
		ivaTotal = ivaTotal.Add(l.iva.Mul(qty))
		descuentoTotal = descuentoTotal.Add(l.descuento.Mul(qty))
		total = total.Add(l.base.Add(l.iva).Mul(qty))
	}

	venta := model.Venta{
		SucursalID:   sucursalID,
		UsuarioID:    usuarioID,
		MetodoPago:   req.MetodoPago,
		Subtotal:     subtotal.Round(2),
		IVATotal:     ivaTotal.Round(2),
		DescuentoTot: descuentoTotal.Round(2),
		Total:        total.Round(2),
		Estado:       model.VentaCompletada,
	}
	for _, l := range lineas {
		qty := decimal.NewFromInt(int64(l.cantidad))
		venta.Items = append(venta.Items, model.VentaItem{
			Producto:       model.ProductoRef{Tipo: l.producto.Tipo, ID: l.producto.ID},
			Cantidad:       l.cantidad,
			PrecioUnitario: l.base.Round(4),
			IVAAplicado:    l.iva.Round(4),
			DescuentoAplic: l.descuento.Round(4),
			Subtotal:       l.base.Mul(qty).Round(2),
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}
		ref := venta.ID
		for _, l := range lineas {
			_, err := s.stock.AjustarTx(tx, l.producto.ID, sucursalID, -l.cantidad,
				model.MovVenta, fmt.Sprintf("Venta %s", venta.ID), &ref)
			if err != nil {
				if e := apierror.AsError(err); e != nil {
					// name the product in the availability failure
					return apierror.Newf(e.Code, "%s: %s", l.producto.Nombre, e.Message)
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Ticket dispatch — best-effort, strictly after commit. A notification
	// failure is logged by the worker and never invalidates the sale.
	if s.dispatcher != nil && (req.ClienteTelefono != nil || req.ClienteEmail != nil) {
		payload := worker.TicketJobPayload{VentaID: venta.ID.String()}
		if req.ClienteTelefono != nil {
			payload.Telefono = *req.ClienteTelefono
		}
		if req.ClienteEmail != nil {
			payload.Email = *req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueTicket(ctx, payload)
	}

	resp := ventaToResponse(&venta)
	for i, l := range lineas {
		resp.Items[i].Producto = l.producto.Nombre
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Restores every item's stock and deletes the sale with its items in ONE
// transaction: the sale record and its stock effect disappear together or not
// at all. The sale is re-read under a row lock INSIDE the transaction, so two
// concurrent cancellations serialize — the loser sees the row already gone and
// never restores twice. The movement ledger keeps the audit trail of both
// directions.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return apierror.New(apierror.CodeNoEncontrado, "venta no encontrada")
		}
		ref := venta.ID
		for _, item := range venta.Items {
			_, err := s.stock.AjustarTx(tx, item.Producto.ID, venta.SucursalID, item.Cantidad,
				model.MovAnulacionVenta, fmt.Sprintf("Anulación venta %s — %s", venta.ID, motivo), &ref)
			if err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, id)
	})
}

// ListVentas returns a paginated list of sales. Default filter: today.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.Producto.ID.String(),
			ProductoTipo:   string(item.Producto.Tipo),
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			IVAAplicado:    item.IVAAplicado,
			Descuento:      item.DescuentoAplic,
			Subtotal:       item.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:             v.ID.String(),
		SucursalID:     v.SucursalID.String(),
		UsuarioID:      v.UsuarioID.String(),
		MetodoPago:     v.MetodoPago,
		Items:          items,
		Subtotal:       v.Subtotal,
		IVATotal:       v.IVATotal,
		DescuentoTotal: v.DescuentoTot,
		Total:          v.Total,
		Estado:         v.Estado,
		CreatedAt:      v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
