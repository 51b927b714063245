package worker

// ticket_worker.go
// Processes receipt jobs from QueueTickets: generates the PDF ticket for a
// completed sale and delivers it by WhatsApp and/or email. Delivery is always
// best-effort — the sale was already committed by the time this runs.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiendapos/internal/infra"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TicketJobPayload is the job envelope sent to QueueTickets.
type TicketJobPayload struct {
	VentaID  string `json:"venta_id"`
	Telefono string `json:"telefono,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TicketWorker generates the PDF receipt and delivers it. WhatsApp delivery
// goes through the circuit breaker so a downed gateway degrades to
// log-and-skip instead of stalling the pool.
type TicketWorker struct {
	ventaRepo      repository.VentaRepository
	productoRepo   repository.ProductoRepository
	waClient       *infra.WhatsAppClient
	cb             *infra.CircuitBreaker
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewTicketWorker(
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	waClient *infra.WhatsAppClient,
	cb *infra.CircuitBreaker,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *TicketWorker {
	return &TicketWorker{
		ventaRepo:      ventaRepo,
		productoRepo:   productoRepo,
		waClient:       waClient,
		cb:             cb,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single ticket job:
//  1. Parse TicketJobPayload from the job envelope
//  2. Fetch the Venta (with items) and resolve product names
//  3. Generate the PDF ticket
//  4. Send by WhatsApp through the circuit breaker, with retries
//  5. Enqueue an email job if a customer email was provided
func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("ticket_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: venta not found")
		return
	}

	nombres := w.resolveNombres(ctx, venta)

	pdfPath, pdfErr := infra.GenerateTicketPDF(venta, nombres, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("venta_id", payload.VentaID).Msg("ticket_worker: PDF generation failed")
	}

	if payload.Telefono != "" {
		w.sendWhatsApp(ctx, venta, payload)
	}

	if payload.Email != "" && pdfPath != "" {
		emailJob := EmailJobPayload{
			ToEmail: payload.Email,
			Subject: fmt.Sprintf("Ticket de compra — %s", venta.CreatedAt.Format("02/01/2006")),
			Body:    fmt.Sprintf("Adjunto encontrarás tu ticket de compra.\nTotal: $%s", venta.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", payload.Email).Msg("ticket_worker: failed to enqueue email")
		}
	}
}

// sendWhatsApp delivers the receipt text with retries through the circuit
// breaker. After exhausting retries the job goes to the DLQ for inspection.
func (w *TicketWorker) sendWhatsApp(ctx context.Context, venta *model.Venta, payload TicketJobPayload) {
	msg := infra.WhatsAppMessage{
		Telefono: payload.Telefono,
		Texto: fmt.Sprintf("Gracias por tu compra del %s. Total: $%s",
			venta.CreatedAt.Format("02/01/2006 15:04"), venta.Total.StringFixed(2)),
		VentaID: payload.VentaID,
	}

	const maxAttempts = 3
	sendErr := withRetry(ctx, maxAttempts, func(attempt int) error {
		err := w.cb.Execute(func() error {
			return w.waClient.Enviar(ctx, msg)
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("venta_id", payload.VentaID).
				Msg("ticket_worker: WhatsApp attempt failed")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("venta_id", payload.VentaID).Msg("ticket_worker: WhatsApp delivery failed after all retries")
		data, _ := json.Marshal(payload)
		SendToDLQ(ctx, w.rdb, QueueTickets, "ticket", data,
			fmt.Sprintf("whatsapp delivery failed: %v", sendErr), maxAttempts)
		return
	}
	log.Info().Str("venta_id", payload.VentaID).Str("telefono", payload.Telefono).Msg("ticket_worker: WhatsApp sent")
}

// resolveNombres maps producto_id → nombre for the PDF item table. A missing
// product (retired after the sale) just renders blank.
func (w *TicketWorker) resolveNombres(ctx context.Context, venta *model.Venta) map[uuid.UUID]string {
	nombres := make(map[uuid.UUID]string, len(venta.Items))
	for _, item := range venta.Items {
		if _, ok := nombres[item.Producto.ID]; ok {
			continue
		}
		p, err := w.productoRepo.FindByID(ctx, item.Producto.ID)
		if err != nil {
			log.Warn().Str("producto_id", item.Producto.ID.String()).Msg("ticket_worker: producto not found for ticket")
			continue
		}
		nombres[item.Producto.ID] = p.Nombre
	}
	return nombres
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
