package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/reports"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

var _ reports.SpreadsheetWriter = (*ExcelWriter)(nil)

// ExcelWriter escribe el reporte de stock como hoja de cálculo xlsx.
type ExcelWriter struct{}

// NewExcelWriter construye el escritor.
func NewExcelWriter() *ExcelWriter { return &ExcelWriter{} }

const sheetName = "stock"

// WriteStockReport escribe una fila por material: id, nombre, cantidad,
// umbral, bandera low y última actualización.
func (w *ExcelWriter) WriteStockReport(path string, materials []*entity.Material) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renombrar hoja: %w", err)
	}

	header := []interface{}{"id", "name", "quantity", "threshold", "low", "last_update"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("escribir cabecera: %w", err)
	}

	for i, m := range materials {
		qty, _ := m.Quantity.Float64()
		row := []interface{}{m.ID, m.Name, qty, m.LowThreshold, m.Low, m.UpdatedAt.Format("2006-01-02 15:04:05")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("celda fila %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("guardar xlsx: %w", err)
	}
	return nil
}
