package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"salescheck/constants"
	apperrors "salescheck/errors"
	"salescheck/models"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

const (
	exportTitle     = "Check-In Records"
	exportSheetName = "Records"
)

// ExportColumns theo đúng thứ tự field của bản ghi
var ExportColumns = []string{
	"Name",
	"User Email",
	"User ID",
	"Company Name",
	"Location",
	"Check-In Time",
	"Check-Out Time",
	"Check-In Address",
	"Check-Out Address",
}

var exportContentTypes = map[ExportFormat]string{
	ExportCSV:  "text/csv; charset=utf-8",
	ExportPDF:  "application/pdf",
	ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportFile là file đã dựng xong trong bộ nhớ, không lưu lại ở đâu
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportFileName: checkin-records[_<from>][_<to>].<ext>
func ExportFileName(from, to string, format ExportFormat) string {
	var b strings.Builder
	b.WriteString("checkin-records")
	if from != "" {
		b.WriteString("_" + from)
	}
	if to != "" {
		b.WriteString("_" + to)
	}
	b.WriteString("." + string(format))
	return b.String()
}

// Export dựng file xuất cho các bản ghi đang hiển thị
func Export(records []models.CheckInRecord, format ExportFormat, from, to string, loc *time.Location) (*ExportFile, error) {
	if format == "" {
		format = ExportCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, fmt.Sprintf("unsupported export format %q", format), nil)
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case ExportPDF:
		err = WritePDF(&buf, records, loc)
	case ExportXLSX:
		err = WriteXLSX(&buf, records, loc)
	default:
		err = WriteCSV(&buf, records, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	return &ExportFile{
		FileName:    ExportFileName(from, to, format),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

func formatExportTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(constants.DateTimeLayout)
}

// mỗi bản ghi đúng một dòng: xuống dòng trong ô được thay bằng khoảng trắng
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func exportRow(r models.CheckInRecord, loc *time.Location) []string {
	checkIn := r.CheckInTime
	row := []string{
		r.Name,
		r.UserEmail,
		r.UserID,
		r.CompanyName,
		r.Location,
		formatExportTime(&checkIn, loc),
		formatExportTime(r.CheckOutTime, loc),
		r.CheckInAdd,
		r.CheckOutAdd,
	}
	for i, v := range row {
		row[i] = lineBreaks.Replace(v)
	}
	return row
}

// WriteCSV ghi header và một dòng cho mỗi bản ghi, quote theo RFC 4180
func WriteCSV(w io.Writer, records []models.CheckInRecord, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(exportRow(r, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// độ rộng cột PDF (mm) trên khổ A4 ngang
var pdfColumnWidths = []float64{26, 38, 26, 28, 22, 30, 30, 39, 39}

func WritePDF(w io.Writer, records []models.CheckInRecord, loc *time.Location) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range ExportColumns {
			pdf.CellFormat(pdfColumnWidths[i], 7, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, exportTitle, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d records", len(records)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for i, r := range records {
		// Dòng chẵn lẻ tô màu xen kẽ
		if i%2 == 1 {
			pdf.SetFillColor(240, 240, 240)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range exportRow(r, loc) {
			text := fitText(pdf, tr(cell), pdfColumnWidths[j]-2)
			pdf.CellFormat(pdfColumnWidths[j], 6, text, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fitText cắt chuỗi cho vừa độ rộng ô
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func WriteXLSX(w io.Writer, records []models.CheckInRecord, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(ExportColumns))
	for i, col := range ExportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(r, loc)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
