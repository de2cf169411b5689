package services

import (
	"fmt"

	"github.com/confreview/backend/internal/spreadsheet"
)

const AcceptedSheet = "Accepted"

// EncodeAcceptedWorkbook renders accepted rows as an xlsx workbook.
func EncodeAcceptedWorkbook(rows []AcceptedRow) ([]byte, error) {
	values := make([][]string, len(rows))
	for i, r := range rows {
		values[i] = r.Values()
	}
	return spreadsheet.Encode(AcceptedSheet, AcceptedColumns, values)
}

func AcceptedFilename(eventTitle string) string {
	return fmt.Sprintf("%s-accepted.xlsx", eventTitle)
}
