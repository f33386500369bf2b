// Package export renders recruiter downloads.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

const (
	applicantsSheet = "Pelamar"
	summarySheet    = "Ringkasan"
	timeLayout      = "2006-01-02 15:04"
)

var applicantHeaders = []string{
	"No", "Nama", "Email", "Telepon", "Kota", "Status", "Kelengkapan Profil (%)", "Tanggal Melamar", "Catatan Recruiter",
}

type Applicant struct {
	Name          string
	Email         string
	Phone         string
	City          string
	Status        string
	Completeness  int
	AppliedAt     time.Time
	RecruiterNote string
}

type ApplicantSheet struct {
	JobTitle    string
	CompanyName string
	GeneratedAt time.Time
	Location    *time.Location
	Applicants  []Applicant
}

// WriteApplicants writes the workbook for one job's applicants to w.
func WriteApplicants(w io.Writer, s ApplicantSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	if err := f.SetSheetName("Sheet1", applicantsSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "create summary sheet")
	}

	if err := writeApplicantRows(f, s.Applicants, loc); err != nil {
		return errors.Wrap(err, "write applicants sheet")
	}
	if err := writeSummary(f, s, loc); err != nil {
		return errors.Wrap(err, "write summary sheet")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeApplicantRows(f *excelize.File, rows []Applicant, loc *time.Location) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	for i, h := range applicantHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(applicantsSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(applicantHeaders), 1)
	if err := f.SetCellStyle(applicantsSheet, "A1", last, style); err != nil {
		return err
	}

	for i, a := range rows {
		values := []any{
			i + 1, a.Name, a.Email, a.Phone, a.City, a.Status, a.Completeness,
			a.AppliedAt.In(loc).Format(timeLayout), a.RecruiterNote,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(applicantsSheet, cell, &values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(applicantsSheet, "A", "A", 6)
	_ = f.SetColWidth(applicantsSheet, "B", "C", 28)
	_ = f.SetColWidth(applicantsSheet, "D", "H", 18)
	_ = f.SetColWidth(applicantsSheet, "I", "I", 40)

	if len(rows) > 0 {
		ref := fmt.Sprintf("A1:%s", lastCell(len(rows)+1))
		if err := f.AutoFilter(applicantsSheet, ref, nil); err != nil {
			return err
		}
	}
	return f.SetPanes(applicantsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func lastCell(row int) string {
	cell, _ := excelize.CoordinatesToCellName(len(applicantHeaders), row)
	return cell
}

func writeSummary(f *excelize.File, s ApplicantSheet, loc *time.Location) error {
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	counts := map[string]int{}
	var order []string
	for _, a := range s.Applicants {
		if _, ok := counts[a.Status]; !ok {
			order = append(order, a.Status)
		}
		counts[a.Status]++
	}

	rows := [][2]any{
		{"Lowongan", s.JobTitle},
		{"Perusahaan", s.CompanyName},
		{"Dibuat", s.GeneratedAt.In(loc).Format(timeLayout)},
		{"Total Pelamar", len(s.Applicants)},
	}
	for _, st := range order {
		rows = append(rows, [2]any{st, counts[st]})
	}

	for i, r := range rows {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), r[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), label); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)
	return nil
}
