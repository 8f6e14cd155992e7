package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/chemtrace/sdsvault/core"
)

// Column headers for the non-section fields of a source sheet.
const (
	columnFileName    = "File Name"
	columnProductName = "Product Name"
	columnSupplier    = "Supplier Name"
)

// Row is a single safety data sheet read from a tabular source.
// Sections maps each section to its text; a section may be empty when the
// source cell was blank.
type Row struct {
	Index       uint32
	FileName    string
	ProductName string
	Supplier    string
	Sections    map[core.SectionID]string
}

// Documents expands the row into one document per section, in section
// order. The returned documents carry no vectors; embedding happens later
// in the pipeline.
func (r *Row) Documents() []*core.SectionDocument {
	docs := make([]*core.SectionDocument, 0, core.MaxSectionID)
	for section := core.SectionIdentification; section <= core.SectionOther; section++ {
		docs = append(docs, &core.SectionDocument{
			Row:         r.Index,
			Section:     section,
			FileName:    r.FileName,
			ProductName: r.ProductName,
			Supplier:    r.Supplier,
			Content:     r.Sections[section],
		})
	}
	return docs
}

// ReadRows parses a CSV source into rows. The first record is the header
// and must contain the file name, product name, and supplier columns plus
// one column per section, named after the section. Header names are
// matched after trimming surrounding whitespace. Row indices count data
// records from zero.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	fileNameCol, ok := columns[columnFileName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columnFileName)
	}
	productCol, ok := columns[columnProductName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columnProductName)
	}
	supplierCol, ok := columns[columnSupplier]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columnSupplier)
	}

	sectionCols := make(map[core.SectionID]int, core.MaxSectionID)
	for section := core.SectionIdentification; section <= core.SectionOther; section++ {
		col, ok := columns[section.Name()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, section.Name())
		}
		sectionCols[section] = col
	}

	var rows []Row
	for index := uint32(0); ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", index, err)
		}

		row := Row{
			Index:       index,
			FileName:    strings.TrimSpace(field(record, fileNameCol)),
			ProductName: strings.TrimSpace(field(record, productCol)),
			Supplier:    strings.TrimSpace(field(record, supplierCol)),
			Sections:    make(map[core.SectionID]string, core.MaxSectionID),
		}
		for section, col := range sectionCols {
			row.Sections[section] = strings.TrimSpace(field(record, col))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// field returns the value at the given column, or empty when the record
// is short.
func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}
