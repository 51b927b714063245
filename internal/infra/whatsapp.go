package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppMessage is the payload sent to the WhatsApp gateway.
type WhatsAppMessage struct {
	Telefono string `json:"telefono"`
	Texto    string `json:"texto"`
	VentaID  string `json:"venta_id"`
}

type whatsAppResponse struct {
	Estado  string `json:"estado"` // "enviado" | "rechazado"
	Detalle string `json:"detalle"`
}

// WhatsAppClient delegates message delivery to an external WhatsApp gateway
// over HTTP. Delivery failures never reach the sales path; they surface only
// in the worker pool, behind the circuit breaker.
type WhatsAppClient struct {
	gatewayURL string
	httpClient *http.Client
}

func NewWhatsAppClient(gatewayURL string) *WhatsAppClient {
	return &WhatsAppClient{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enviar sends a POST to the gateway and fails on any non-delivered outcome.
func (c *WhatsAppClient) Enviar(ctx context.Context, msg WhatsAppMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/mensajes", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp: gateway returned %d", resp.StatusCode)
	}

	var result whatsAppResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if result.Estado != "enviado" {
		return fmt.Errorf("whatsapp: gateway rejected message: %s", result.Detalle)
	}
	return nil
}
