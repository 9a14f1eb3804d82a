// Resumen PDF del snapshot de stock: totales del ledger y la tabla de
// materiales en alerta, generado con Maroto v2.
package export

import (
	"fmt"
	"os"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/reports"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

var _ reports.SummaryGenerator = (*MarotoSummaryGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// MarotoSummaryGenerator escribe el resumen PDF del snapshot usando Maroto v2.
type MarotoSummaryGenerator struct{}

// NewMarotoSummaryGenerator construye el generador.
func NewMarotoSummaryGenerator() *MarotoSummaryGenerator { return &MarotoSummaryGenerator{} }

// WriteSummary genera el PDF con el total de materiales, cuántos están en
// alerta y una tabla con los materiales bajo umbral.
func (g *MarotoSummaryGenerator) WriteSummary(path string, materials []*entity.Material, generatedAt time.Time) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de stock", true).
		Build()

	m := maroto.New(cfg)

	var low []*entity.Material
	for _, mat := range materials {
		if mat.Low {
			low = append(low, mat)
		}
	}

	m.AddRows(headerRow(generatedAt, len(materials), len(low)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, mat := range low {
		m.AddRows(materialRow(mat))
	}
	if len(low) == 0 {
		m.AddRows(row.New(8).Add(
			col.New(12).Add(text.New("Sin materiales en alerta.", props.Text{Size: 9, Color: colorGray, Top: 2})),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if err := os.WriteFile(path, doc.GetBytes(), 0o644); err != nil {
		return fmt.Errorf("pdf: guardar: %w", err)
	}
	return nil
}

// headerRow: título y contadores del snapshot.
func headerRow(generatedAt time.Time, total, lowCount int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("RESUMEN DE STOCK DE MATERIAS PRIMAS", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Materiales: %d   |   En alerta: %d", total, lowCount), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(3).Add(text.New("ID", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2})),
		col.New(5).Add(text.New("Material", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2})),
		col.New(2).Add(text.New("Cantidad", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Align: align.Right})),
		col.New(2).Add(text.New("Umbral", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Align: align.Right})),
	)
}

func materialRow(mat *entity.Material) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(mat.ID, props.Text{Size: 8, Top: 1, Color: colorGray})),
		col.New(5).Add(text.New(mat.Name, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(mat.Quantity.String(), props.Text{Size: 8, Top: 1, Align: align.Right, Color: colorAlert})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", mat.LowThreshold), props.Text{Size: 8, Top: 1, Align: align.Right})),
	)
}
