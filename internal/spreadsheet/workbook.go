package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"highspirit-app-go/internal/domain/importer"
	"highspirit-app-go/internal/domain/membership"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	BackupSheet  = "Gym Members"
	CustomersTpl = "Customers"
	BoxingTpl    = "Boxing"

	dateLayout = "02 Jan 2006"
)

var backupHeader = []string{
	"SN", "Full Name", "Phone", "Email", "Address", "Gender", "Blood Group",
	"Weight (KG)", "Height", "Occupation", "Join Date", "Date Of Birth", "Shift",
	"Remarks", "Plan Name", "Paid Price", "Start Date", "Duration (Months)",
	"Expire Date", "Due Days",
}

var backupWidths = []float64{6, 24, 14, 24, 24, 10, 12, 12, 10, 16, 14, 14, 12, 24, 16, 12, 14, 18, 14, 10}

// Column 5 of the customer template is left unnamed because the importer skips it.
var customerTemplateHeader = []string{"Full Name", "Join Date", "Plan Name", "Duration (Months)", "", "Shift", "Remarks"}

var boxingTemplateHeader = []string{
	"Name", "Join Date", "Guardian Name", "Guardian Contact", "Per Month Class",
	"Cash Amount", "Esewa Amount", "Due Amount", "Remarks",
}

// ReadWorkbook decodes every worksheet into string cells. Raw cell values are
// used so date cells come through as serial numbers rather than in whatever
// display format the author picked.
func ReadWorkbook(r io.Reader) ([]importer.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]importer.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, importer.Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// WriteCustomerBackup writes one row per customer with its current membership.
func WriteCustomerBackup(w io.Writer, customers []membership.CustomerSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BackupSheet); err != nil {
		return err
	}
	if err := writeHeader(f, BackupSheet, backupHeader, backupWidths); err != nil {
		return err
	}

	for i, customer := range customers {
		row := backupRow(i+1, customer)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(BackupSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func WriteCustomerTemplate(w io.Writer) error {
	return writeTemplate(w, CustomersTpl, customerTemplateHeader, []any{"Sita Sharma", "5th Aug 2024", "Gym", 1, "", "Morning", ""})
}

func WriteBoxingTemplate(w io.Writer) error {
	return writeTemplate(w, BoxingTpl, boxingTemplateHeader, []any{"Ram Thapa", "1 Jan 2024", "Hari Thapa", "9800000000", "0+0+0+0", 1500, 0, 0, ""})
}

func writeTemplate(w io.Writer, sheet string, header []string, example []any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	widths := make([]float64, len(header))
	for i := range widths {
		widths[i] = 18
	}
	if err := writeHeader(f, sheet, header, widths); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return err
	}

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, header []string, widths []float64) error {
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return err
	}

	for i, title := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := fmt.Sprintf("%s1", col)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, boldStyle); err != nil {
			return err
		}
		if i < len(widths) {
			if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func backupRow(sn int, customer membership.CustomerSummary) []any {
	row := []any{
		sn,
		customer.FullName,
		customer.Phone,
		stringOrBlank(customer.Email),
		customer.Address,
		customer.Gender,
		customer.BloodGroup,
		weightOrBlank(customer.WeightKG),
		customer.Height,
		customer.Occupation,
		formatDate(customer.JoinDate),
		dateOrBlank(customer.DateOfBirth),
		customer.Shift,
		customer.Remarks,
	}

	current := customer.Current
	if current == nil {
		return append(row, "", "", "", "", "", "")
	}
	return append(row,
		current.PlanName,
		current.PaidPrice,
		formatDate(current.StartDate),
		current.Duration,
		formatDate(current.ExpireDate),
		current.DueDaysComputed,
	)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func dateOrBlank(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func stringOrBlank(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func weightOrBlank(value *float64) any {
	if value == nil {
		return ""
	}
	return *value
}
