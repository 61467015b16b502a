package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
)

func writeCSV(path string, ds Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifact: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
