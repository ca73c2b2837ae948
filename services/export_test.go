package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	apperrors "salescheck/errors"
	"salescheck/models"

	"github.com/xuri/excelize/v2"
)

func exportFixture() []models.CheckInRecord {
	in := time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)
	out := in.Add(3 * time.Hour)
	return []models.CheckInRecord{
		{
			ID: "r1", UserID: "u1", UserEmail: "asha@example.com", Name: "Asha Patel",
			CompanyName: `Acme, "Gujarat" Ltd`, Location: "Rajkot",
			CheckInTime: in, CheckOutTime: &out,
			CheckInAdd: "Race Course Road,\nRajkot", CheckOutAdd: "Kalawad Road, Rajkot",
		},
		{
			ID: "r2", UserID: "u2", UserEmail: "ravi@example.com", Name: "Ravi Shah",
			CompanyName: "Globex", Location: "Surat",
			CheckInTime: in.Add(time.Hour), CheckInAdd: "Ring Road, Surat",
		},
	}
}

var ist = time.FixedZone("IST", 5*3600+1800)

func TestExportCSV(t *testing.T) {
	file, err := Export(exportFixture(), ExportCSV, "2024-03-01", "2024-03-31", ist)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.FileName != "checkin-records_2024-03-01_2024-03-31.csv" {
		t.Fatalf("file name = %q", file.FileName)
	}
	if !strings.HasPrefix(file.ContentType, "text/csv") {
		t.Fatalf("content type = %q", file.ContentType)
	}

	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 physical lines for 2 records, got %d: %q", len(lines), file.Data)
	}

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], "|") != strings.Join(ExportColumns, "|") {
		t.Fatalf("header = %v", rows[0])
	}
	first := rows[1]
	if first[3] != `Acme, "Gujarat" Ltd` || first[7] != "Race Course Road, Rajkot" {
		t.Fatalf("quoting lost data: %q", first)
	}
	if first[5] != "2024-03-10 09:30:00" || first[6] != "2024-03-10 12:30:00" {
		t.Fatalf("times not in local zone: %q %q", first[5], first[6])
	}
	if rows[2][6] != "" || rows[2][8] != "" {
		t.Fatalf("open session should have empty check-out cells: %q", rows[2])
	}
}

func TestExportEmptyCSV(t *testing.T) {
	file, err := Export(nil, "", "", "", nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.FileName != "checkin-records.csv" {
		t.Fatalf("file name = %q", file.FileName)
	}
	if got := strings.Count(string(file.Data), "\n"); got != 1 {
		t.Fatalf("expected header only, got %d lines", got)
	}
}

func TestExportPDF(t *testing.T) {
	file, err := Export(exportFixture(), ExportPDF, "2024-03-10", "", ist)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.ContentType != "application/pdf" || file.FileName != "checkin-records_2024-03-10.pdf" {
		t.Fatalf("file = %q %q", file.FileName, file.ContentType)
	}
	if !bytes.HasPrefix(file.Data, []byte("%PDF")) {
		t.Fatal("not a pdf")
	}
}

func TestExportXLSX(t *testing.T) {
	file, err := Export(exportFixture(), ExportXLSX, "", "", ist)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Records")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[1][0] != "Asha Patel" || rows[2][4] != "Surat" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, err := Export(nil, "docx", "", "", nil); !apperrors.HasCode(err, apperrors.ErrCodeInvalidFormat) {
		t.Fatalf("got %v", err)
	}
}
