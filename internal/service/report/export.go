package report

import (
	"fmt"
	"io"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

// writeWorkbook renders one row per record followed by a totals row. The
// owner profit column is only written for admins.
func writeWorkbook(w io.Writer, records []attendance.Attendance, withProfit bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name export sheet: %w", err)
	}

	header := []interface{}{
		"Date", "Employee", "Template", "Working", "Clients",
		"Base Salary", "Commission", "Total Salary", "Broker Commission",
	}
	if withProfit {
		header = append(header, "Owner Profit")
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create export style: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style export header: %w", err)
	}

	rowNum := 2
	for _, a := range records {
		b := a.Breakdown
		row := []interface{}{
			dateutil.Format(a.Date),
			ByEmployee(a),
			ByTemplate(a),
			a.IsWorking,
			a.ClientCount,
			b.BaseSalary.InexactFloat64(),
			b.Commission.InexactFloat64(),
			b.TotalSalary.InexactFloat64(),
			b.BrokerCommission.InexactFloat64(),
		}
		if withProfit {
			row = append(row, b.OwnerProfit.InexactFloat64())
		}
		if err := setRow(f, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}

	totals := Sum(records)
	totalsRow := []interface{}{
		"Total", "", "", totals.WorkingDays, totals.ClientCount,
		"", "", totals.TotalSalary.InexactFloat64(), totals.BrokerCommission.InexactFloat64(),
	}
	if withProfit {
		totalsRow = append(totalsRow, totals.OwnerProfit.InexactFloat64())
	}
	if err := setRow(f, rowNum, totalsRow); err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheet, rowNum, rowNum, bold); err != nil {
		return fmt.Errorf("failed to style export totals: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write export workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write export row %d: %w", rowNum, err)
	}
	return nil
}
