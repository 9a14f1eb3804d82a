// Package pedidosok implementa el callback hacia la plataforma PedidosOK:
// tras procesar un pedido en segundo plano, se le notifica el resultado para
// que el pedido quede marcado como surtido o rechazado en la plataforma.
package pedidosok

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/orders"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/pkg/logger"
)

var _ orders.Notifier = (*Client)(nil)

// Client notifica resultados de pedidos a PedidosOK vía HTTP.
// Con baseURL vacío o mock activo, las notificaciones solo se registran en el log.
type Client struct {
	http    *resty.Client
	baseURL string
	mock    bool
	log     *logger.Logger
}

// NewClient construye el cliente.
func NewClient(baseURL string, mock bool, log *logger.Logger) *Client {
	http := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{http: http, baseURL: baseURL, mock: mock, log: log}
}

// resultPayload es el cuerpo del callback POST /pedidos/{id}/resultado.
type resultPayload struct {
	Status  string                     `json:"status"` // ok | insufficient_stock | error
	Debited map[string]decimal.Decimal `json:"debited,omitempty"`
	Detail  string                     `json:"detail,omitempty"`
}

// NotifyResult publica el resultado del pedido en la plataforma. Los fallos
// de notificación se registran y no se propagan: el ledger ya quedó
// consistente y la plataforma puede re-consultar.
func (c *Client) NotifyResult(ctx context.Context, result *orders.Result, processErr error) {
	if result == nil {
		return
	}

	payload := resultPayload{Status: "ok", Debited: result.Debited}
	switch {
	case errors.Is(processErr, domain.ErrInsufficientStock):
		payload = resultPayload{Status: "insufficient_stock", Detail: fmt.Sprintf("%d materiales faltantes", len(result.Shortages))}
	case processErr != nil:
		payload = resultPayload{Status: "error", Detail: processErr.Error()}
	}

	if c.baseURL == "" || c.mock {
		c.log.Debug().
			Str("pedido_id", result.OrderID).
			Str("status", payload.Status).
			Msg("notificación a PedidosOK omitida (mock o sin base URL)")
		return
	}

	url := fmt.Sprintf("%s/pedidos/%s/resultado", c.baseURL, result.OrderID)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		c.log.Error().Err(err).Str("pedido_id", result.OrderID).Msg("callback a PedidosOK falló")
		return
	}
	if resp.IsError() {
		c.log.Error().
			Int("status", resp.StatusCode()).
			Str("pedido_id", result.OrderID).
			Msg("PedidosOK respondió error al callback")
		return
	}
	c.log.Info().Str("pedido_id", result.OrderID).Str("status", payload.Status).Msg("resultado notificado a PedidosOK")
}
