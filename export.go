package gotables

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

var ErrUnknownExportFormat = errors.New("unknown export format")

// ExportFormat names an output format of Table.Export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportXML ExportFormat = "xml"
)

const csvSeparator = ';'

const (
	xmlRootElement = "rows"
	xmlRowElement  = "row"
)

// ParseExportFormat accepts a format name in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportXML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownExportFormat, s)
	}
}

// Export writes every row matching the current searches, in the current
// order, to w. Paging is ignored.
//
// CSV output starts with a header row of column names. XML output holds one
// row element per row with a column-named attribute per cell.
func (t *Table) Export(w io.Writer, format ExportFormat) error {
	rows := t.view()

	var err error
	switch format {
	case ExportCSV:
		err = t.exportCSV(w, rows)
	case ExportXML:
		err = t.exportXML(w, rows)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownExportFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	t.logger.Debug("table exported", zap.String("format", string(format)), zap.Int("rows", len(rows)))

	return nil
}

func (t *Table) exportCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.Comma = csvSeparator

	if err := writer.Write(t.columnNames()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(t.cells(row)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (t *Table) exportXML(w io.Writer, rows [][]string) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	names := t.columnNames()
	enc := xml.NewEncoder(w)
	root := xml.StartElement{Name: xml.Name{Local: xmlRootElement}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, row := range rows {
		element := xml.StartElement{
			Name: xml.Name{Local: xmlRowElement},
			Attr: make([]xml.Attr, 0, len(names)),
		}
		for i, name := range names {
			element.Attr = append(element.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: cellAt(row, i)})
		}
		if err := enc.EncodeToken(element); err != nil {
			return err
		}
		if err := enc.EncodeToken(element.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}

	return enc.Flush()
}

func (t *Table) columnNames() []string {
	names := make([]string, len(t.config.Columns))
	for i, column := range t.config.Columns {
		names[i] = column.Name
	}

	return names
}

// cells pads short rows to the column count.
func (t *Table) cells(row []string) []string {
	cells := make([]string, len(t.config.Columns))
	for i := range cells {
		cells[i] = cellAt(row, i)
	}

	return cells
}
