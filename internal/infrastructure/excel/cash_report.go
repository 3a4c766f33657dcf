package excel

import (
	"fmt"
	"io"

	"github.com/jhoicas/Solicitudes-api/internal/application/pettycash"
	"github.com/xuri/excelize/v2"
)

// WriteCashReport vuelca el libro de caja menor a un xlsx sobre el writer
// (normalmente el body de la respuesta HTTP).
func WriteCashReport(w io.Writer, data *pettycash.ReportData) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := "Sheet1"

	headers := []string{"Fecha", "Custodio", "Caja", "Tipo", "Descripción", "Referencia", "Asignado", "Gastado"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, row := range data.Rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Custodian)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.BoxName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.Description)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.Reference)
		if !row.Allocated.IsZero() {
			v, _ := row.Allocated.Float64()
			f.SetCellValue(sheet, fmt.Sprintf("G%d", r), v)
		}
		if !row.Expensed.IsZero() {
			v, _ := row.Expensed.Float64()
			f.SetCellValue(sheet, fmt.Sprintf("H%d", r), v)
		}
	}

	totalRow := len(data.Rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), "Totales")
	allocated, _ := data.TotalAllocated.Float64()
	expensed, _ := data.TotalExpensed.Float64()
	f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), allocated)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), expensed)

	return f.Write(w)
}
