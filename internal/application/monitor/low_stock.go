// Package monitor implementa el vigilante de stock bajo: un ciclo
// escanear -> dormir -> escanear que emite una alerta por cada material en o
// por debajo de su umbral. Los errores de escaneo no tumban el ciclo: se
// registran y se reintenta tras una espera corta.
package monitor

import (
	"context"
	"time"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/pkg/logger"
)

// MaterialLister es la única lectura que el monitor necesita del ledger.
type MaterialLister interface {
	ListMaterials(ctx context.Context, onlyLow bool) ([]*entity.Material, error)
}

// LowStockMonitor escanea periódicamente el ledger y registra alertas.
type LowStockMonitor struct {
	lister   MaterialLister
	log      *logger.Logger
	interval time.Duration // periodo normal entre escaneos
	retry    time.Duration // espera tras un escaneo fallido
}

// New construye el monitor. interval y retry deben ser > 0.
func New(lister MaterialLister, log *logger.Logger, interval, retry time.Duration) *LowStockMonitor {
	return &LowStockMonitor{lister: lister, log: log, interval: interval, retry: retry}
}

// Run ejecuta el ciclo hasta que el ctx sea cancelado. La cancelación se
// observa antes y después de cada espera; Run retorna y el caller puede
// esperar su salida durante el apagado.
func (m *LowStockMonitor) Run(ctx context.Context) {
	m.log.Info().
		Dur("interval", m.interval).
		Msg("monitor de stock bajo iniciado")

	timer := time.NewTimer(0) // primer escaneo inmediato
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("monitor de stock bajo detenido")
			return
		case <-timer.C:
		}

		wait := m.interval
		if err := m.scan(ctx); err != nil {
			if ctx.Err() != nil {
				m.log.Info().Msg("monitor de stock bajo detenido")
				return
			}
			m.log.Error().Err(err).Msg("escaneo de stock bajo falló, reintentando")
			wait = m.retry
		}

		select {
		case <-ctx.Done():
			m.log.Info().Msg("monitor de stock bajo detenido")
			return
		default:
		}
		timer.Reset(wait)
	}
}

// scan lista los materiales bajo umbral y emite una alerta por cada uno.
func (m *LowStockMonitor) scan(ctx context.Context) error {
	materials, err := m.lister.ListMaterials(ctx, true)
	if err != nil {
		return err
	}
	for _, mat := range materials {
		m.log.Warn().
			Str("material_id", mat.ID).
			Str("material", mat.Name).
			Str("cantidad", mat.Quantity.String()).
			Int("umbral", mat.LowThreshold).
			Msg("alerta: stock bajo")
	}
	return nil
}
