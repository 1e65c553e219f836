package inventory

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// ExportCSV renders the ledger with a status column, one row per product.
func (l Ledger) ExportCSV() ([]byte, error) {
	rows := Rows(l.Items)
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal inventory csv: %w", err)
	}
	return out, nil
}
