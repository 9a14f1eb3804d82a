// Package reports genera el snapshot del ledger: hoja de cálculo con todos
// los materiales, gráfico de barras del top 20 por cantidad y un resumen PDF.
// Los archivos se nombran de forma determinista por timestamp de generación.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

// TopN cantidad de materiales en el gráfico de barras.
const TopN = 20

// SpreadsheetWriter escribe el reporte tabular (una fila por material).
type SpreadsheetWriter interface {
	WriteStockReport(path string, materials []*entity.Material) error
}

// ChartRenderer dibuja el gráfico de barras de los materiales top por cantidad.
type ChartRenderer interface {
	RenderTopChart(path string, materials []*entity.Material) error
}

// SummaryGenerator escribe el resumen PDF con la tabla de stock bajo.
type SummaryGenerator interface {
	WriteSummary(path string, materials []*entity.Material, generatedAt time.Time) error
}

// Files nombres de los archivos generados por un snapshot.
type Files struct {
	Spreadsheet string
	Chart       string
	Summary     string
}

// UseCase orquesta el snapshot contra los puertos de exportación.
type UseCase struct {
	matRepo     repository.MaterialRepository
	spreadsheet SpreadsheetWriter
	chart       ChartRenderer
	summary     SummaryGenerator
	exportDir   string
	now         func() time.Time
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	matRepo repository.MaterialRepository,
	spreadsheet SpreadsheetWriter,
	chart ChartRenderer,
	summary SummaryGenerator,
	exportDir string,
) *UseCase {
	return &UseCase{
		matRepo:     matRepo,
		spreadsheet: spreadsheet,
		chart:       chart,
		summary:     summary,
		exportDir:   exportDir,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot lista todos los materiales y escribe los tres archivos en el
// directorio de exportación. Devuelve los nombres generados.
func (uc *UseCase) Snapshot(ctx context.Context) (*Files, error) {
	materials, err := uc.matRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listar materiales: %w", err)
	}

	generatedAt := uc.now()
	ts := generatedAt.Format("20060102150405")
	files := &Files{
		Spreadsheet: fmt.Sprintf("stock_report_%s.xlsx", ts),
		Chart:       fmt.Sprintf("stock_chart_%s.png", ts),
		Summary:     fmt.Sprintf("stock_resumen_%s.pdf", ts),
	}

	if err := uc.spreadsheet.WriteStockReport(uc.exportDir+"/"+files.Spreadsheet, materials); err != nil {
		return nil, fmt.Errorf("escribir hoja de cálculo: %w", err)
	}
	if err := uc.chart.RenderTopChart(uc.exportDir+"/"+files.Chart, TopRanked(materials, TopN)); err != nil {
		return nil, fmt.Errorf("generar gráfico: %w", err)
	}
	if err := uc.summary.WriteSummary(uc.exportDir+"/"+files.Summary, materials, generatedAt); err != nil {
		return nil, fmt.Errorf("generar resumen: %w", err)
	}
	return files, nil
}

// TopRanked devuelve los n materiales con mayor cantidad, de mayor a menor.
// No muta la lista de entrada.
func TopRanked(materials []*entity.Material, n int) []*entity.Material {
	ranked := append([]*entity.Material(nil), materials...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity.GreaterThan(ranked[j].Quantity)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
