// Package report renders count results as printable PDF documents.
package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"conteo-station/internal/domain/model"
)

// GenerarReporteConteo renders the discrepancy report for one count: a row
// per product with the counted quantity and the derived faltante, sobrante
// and pedido values, plus a Code128 barcode per product code so the report
// itself can be scanned on the floor.
func GenerarReporteConteo(conteo model.Conteo, plantillaNombre string, generado time.Time) ([]byte, error) {
	if len(conteo.Productos) == 0 {
		return nil, fmt.Errorf("count %d has no products to report", conteo.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Reporte de conteo %d", conteo.ID), false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	margin := 12.0
	usableW := pageW - 2*margin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("Reporte de conteo #%d", conteo.ID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	if plantillaNombre != "" {
		pdf.CellFormat(0, 6, "Plantilla: "+plantillaNombre, "", 1, "L", false, 0, "")
	}
	if !conteo.FechaInicio.IsZero() {
		pdf.CellFormat(0, 6, "Iniciado: "+conteo.FechaInicio.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Generado: "+generado.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Avance: %d de %d productos (%.0f%%)",
		conteo.Contados(), len(conteo.Productos), conteo.Progreso()), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Column layout: barcode, producto, then the quantity columns.
	colBarcode := 34.0
	colCantidad := 16.0
	colProducto := usableW - colBarcode - 6*colCantidad

	encabezados := []string{"Producto", "Deseada", "Sistema", "Real", "Faltante", "Sobrante", "Pedido"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colBarcode, 7, "Código", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colProducto, 7, encabezados[0], "1", 0, "L", true, 0, "")
	for _, h := range encabezados[1:] {
		pdf.CellFormat(colCantidad, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	rowH := 14.0
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	for i, p := range conteo.Productos {
		x := pdf.GetX()
		y := pdf.GetY()

		barcodePNG, err := renderCode128PNG(p.Codigo, 600, 120)
		if err != nil {
			return nil, fmt.Errorf("barcode for %q: %w", p.Codigo, err)
		}
		imageName := "codigo-" + strconv.FormatInt(conteo.ID, 10) + "-" + strconv.Itoa(i)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))

		pdf.CellFormat(colBarcode, rowH, "", "1", 0, "C", false, 0, "")
		pdf.ImageOptions(imageName, x+2, y+2, colBarcode-4, rowH-6, false, opt, 0, "")
		pdf.SetFont("Helvetica", "", 6)
		pdf.SetXY(x, y+rowH-4)
		pdf.CellFormat(colBarcode, 3, p.Codigo, "", 0, "C", false, 0, "")
		pdf.SetXY(x+colBarcode, y)

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(colProducto, rowH, p.Nombre, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colCantidad, rowH, strconv.Itoa(p.CantidadDeseada), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colCantidad, rowH, strconv.Itoa(p.CantidadSistema), "1", 0, "C", false, 0, "")

		if !p.Contado() {
			pdf.CellFormat(colCantidad, rowH, "-", "1", 0, "C", false, 0, "")
			pdf.CellFormat(colCantidad, rowH, "-", "1", 0, "C", false, 0, "")
			pdf.CellFormat(colCantidad, rowH, "-", "1", 0, "C", false, 0, "")
			pdf.CellFormat(colCantidad, rowH, "-", "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
			continue
		}

		d := p.Diferencias()
		pdf.CellFormat(colCantidad, rowH, strconv.Itoa(*p.CantidadReal), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colCantidad, rowH, celdaDiscrepancia(d.Faltante), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colCantidad, rowH, celdaDiscrepancia(d.Sobrante), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colCantidad, rowH, strconv.Itoa(d.Pedido), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// celdaDiscrepancia prints zero discrepancies as a dash to keep real ones
// visually prominent.
func celdaDiscrepancia(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	bounds := scaled.Bounds()
	normalized := image.NewNRGBA(bounds)
	draw.Draw(normalized, bounds, scaled, bounds.Min, draw.Src)

	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
