package sheetsclient

import "fmt"

// ExportRows creates a new tab and writes a header row followed by rows.
// Cells are written as strings so currency and dates keep their formatting.
func (c *Client) ExportRows(spreadsheetID, tab string, header []string, rows [][]string) error {
	if _, err := c.CreateSheet(spreadsheetID, tab); err != nil {
		return fmt.Errorf("failed to create tab %q: %w", tab, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(header))
	for _, row := range rows {
		values = append(values, toCells(row))
	}

	if err := c.AppendRows(spreadsheetID, fmt.Sprintf("'%s'!A1", tab), values); err != nil {
		return fmt.Errorf("failed to write tab %q: %w", tab, err)
	}

	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
