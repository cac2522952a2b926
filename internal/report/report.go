// Package report exports record lists as Excel workbooks.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
)

// ContentType is the MIME type of rendered workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is a titled table.
type Sheet struct {
	Title   string
	Headers []string
	Rows    [][]any
}

func date(s interface{ Format(string) string }) string {
	return s.Format(schema.DateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Households lays out one row per household; members are listed in a
// single cell.
func Households(recs []*models.Household) Sheet {
	s := Sheet{
		Title:   "Households",
		Headers: []string{"Name", "Type", "NHTS", "Toilet Access", "Assigned Staff", "Purok", "Members", "Registered"},
	}
	for _, h := range recs {
		members := make([]string, 0, len(h.Members))
		for _, m := range h.Members {
			members = append(members, fmt.Sprintf("%s %s (%s, %s)", m.FirstName, m.LastName, m.Gender, m.Occupation))
		}
		s.Rows = append(s.Rows, []any{
			h.Name, string(h.Type), yesNo(h.NHTS), yesNo(h.ToiletAccess), h.AssignedStaff, h.Purok,
			strings.Join(members, "; "), date(h.CreatedAt),
		})
	}
	return s
}

// Pregnant lays out one row per pregnant resident.
func Pregnant(recs []*models.Pregnant) Sheet {
	s := Sheet{
		Title: "Pregnant",
		Headers: []string{"First Name", "Last Name", "Birth Date", "Age", "Taking Ferrous", "Weight (kg)",
			"Blood Pressure", "Months", "Weeks", "Assigned Staff", "Purok"},
	}
	for _, p := range recs {
		s.Rows = append(s.Rows, []any{
			p.FirstName, p.LastName, date(p.BirthDate), p.Age, yesNo(p.TakingFerrous), p.Weight,
			fmt.Sprintf("%d/%d", p.Systolic, p.Diastolic), p.Months, p.Weeks, p.AssignedStaff, p.Purok,
		})
	}
	return s
}

// SeniorCitizens lays out one row per senior citizen.
func SeniorCitizens(recs []*models.SeniorCitizen) Sheet {
	s := Sheet{
		Title: "Senior Citizens",
		Headers: []string{"First Name", "Last Name", "Birth Date", "Age", "Weight (kg)", "Blood Pressure",
			"Medicines", "Assigned Staff", "Purok"},
	}
	for _, sc := range recs {
		s.Rows = append(s.Rows, []any{
			sc.FirstName, sc.LastName, date(sc.BirthDate), sc.Age, sc.Weight,
			fmt.Sprintf("%d/%d", sc.Systolic, sc.Diastolic), strings.Join(sc.Medicines, ", "),
			sc.AssignedStaff, sc.Purok,
		})
	}
	return s
}

// FamilyPlanning lays out one row per enrollee.
func FamilyPlanning(recs []*models.FamilyPlanning) Sheet {
	s := Sheet{
		Title:   "Family Planning",
		Headers: []string{"First Name", "Last Name", "Birth Date", "Age", "Control Method", "Assigned Staff", "Purok"},
	}
	for _, fp := range recs {
		s.Rows = append(s.Rows, []any{
			fp.FirstName, fp.LastName, date(fp.BirthDate), fp.Age, fp.ControlMethod, fp.AssignedStaff, fp.Purok,
		})
	}
	return s
}

// Render writes s as a single-sheet workbook.
func Render(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.Title); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range s.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(s.Title, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(s.Title, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(s.Title, colName, colName, float64(max(14, len(header)+4))); err != nil {
			return nil, err
		}
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(s.Title, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
