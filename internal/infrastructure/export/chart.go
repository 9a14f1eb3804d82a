package export

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/reports"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

var _ reports.ChartRenderer = (*BarChartRenderer)(nil)

// BarChartRenderer dibuja el gráfico de barras de cantidades por material (PNG).
type BarChartRenderer struct{}

// NewBarChartRenderer construye el renderer.
func NewBarChartRenderer() *BarChartRenderer { return &BarChartRenderer{} }

// RenderTopChart recibe los materiales ya rankeados (mayor cantidad primero)
// y los dibuja como barras etiquetadas por nombre.
func (r *BarChartRenderer) RenderTopChart(path string, materials []*entity.Material) error {
	bars := make([]chart.Value, 0, len(materials))
	for _, m := range materials {
		qty, _ := m.Quantity.Float64()
		bars = append(bars, chart.Value{Value: qty, Label: m.Name})
	}
	if len(bars) == 0 {
		// El contrato pide un archivo por snapshot aunque el ledger esté vacío.
		// Valor 1 y no 0: go-chart no dibuja con rango vertical nulo.
		bars = append(bars, chart.Value{Value: 1, Label: "sin materiales"})
	}

	graph := chart.BarChart{
		Title:    "Stock por material",
		Height:   600,
		Width:    1000,
		BarWidth: 36,
		Bars:     bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear png: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render gráfico: %w", err)
	}
	return nil
}
