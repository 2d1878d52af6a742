package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"fjacquet/finance-sync/internal/dateutils"
	"fjacquet/finance-sync/internal/models"

	"github.com/gocarina/gocsv"
)

// Row is one line of a manual import file.
type Row struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Currency    string `csv:"currency"`
	ExternalID  string `csv:"external_id"`
}

// ExportRow is the CSV shape of a stored transaction.
type ExportRow struct {
	ExternalID   string `csv:"external_id"`
	Date         string `csv:"date"`
	Amount       string `csv:"amount"`
	Currency     string `csv:"currency"`
	Type         string `csv:"type"`
	Description  string `csv:"description"`
	Counterparty string `csv:"merchant"`
	Category     string `csv:"category"`
	Subcategory  string `csv:"subcategory"`
	Confidence   int    `csv:"confidence"`
	Manual       bool   `csv:"manual_override"`
}

// ReadRows decodes an import file. The delimiter (',' or ';') is detected
// from the header line.
func ReadRows(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(header)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []Row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	return rows, nil
}

// WriteTransactions encodes records as CSV with a header line.
func WriteTransactions(w io.Writer, records []models.TransactionRecord, delimiter rune) error {
	rows := make([]ExportRow, 0, len(records))
	for _, tx := range records {
		rows = append(rows, ExportRow{
			ExternalID:   tx.ExternalID,
			Date:         dateutils.ToISODate(tx.OccurredAt),
			Amount:       tx.Amount.StringFixed(2),
			Currency:     tx.Currency,
			Type:         tx.Type(),
			Description:  tx.Description,
			Counterparty: tx.Counterparty,
			Category:     tx.Category,
			Subcategory:  tx.Subcategory,
			Confidence:   tx.Confidence,
			Manual:       tx.ManualOverride,
		})
	}

	writer := csv.NewWriter(w)
	if delimiter != 0 {
		writer.Comma = delimiter
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

func detectDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		return ';'
	}
	return ','
}
