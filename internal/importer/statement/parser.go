// Package statement parses bank statement CSV exports into manual
// transactions ready for import.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/agency/internal/encoding"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

var (
	ErrUnknownFormat  = errors.New("no matching statement format found")
	ErrUnknownProfile = errors.New("unknown statement profile")
)

// Parser detects which bank layout a CSV uses by matching its header row
// against the known profiles.
type Parser struct {
	only string
}

// NewParser returns a parser that tries every profile.
func NewParser() *Parser {
	return &Parser{}
}

// NewProfileParser restricts detection to the named profile.
func NewProfileParser(name string) (*Parser, error) {
	for _, p := range profiles {
		if p.Name == name {
			return &Parser{only: name}, nil
		}
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownProfile, name)
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readRows(content, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := p.detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		slog.Debug("statement format detected", "profile", profile.Name, "charset", charset)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownFormat
}

func readRows(content []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

type colIndex map[string]int

func (p *Parser) detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := normalizeHeader(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			prof := &profiles[i]
			if prof.Comma != comma || (p.only != "" && prof.Name != p.only) {
				continue
			}

			if matchesProfile(prof, cols) {
				return prof, cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func normalizeHeader(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a parsable date or amount, which covers the
// balance and footer lines banks append. headerRowNum is 0-based.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(cellValue(row, dateIdx), p.DateLayout)
		if !ok {
			continue
		}

		amount, txType, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		txs = append(txs, transaction.CreateParams{
			Amount:         amount,
			Type:           txType,
			Description:    desc,
			RawDescription: desc,
			Date:           date,
		})
	}

	return txs, nil
}

func parseDate(s, layout string) (civil.Date, bool) {
	if s == "" {
		return civil.Date{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return civil.Date{}, false
	}

	return civil.DateOf(t), true
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return singleAmount(cellValue(row, cols[p.AmountCol]), p.DecimalComma, p.ChargesPositive)
	case amountSplit:
		return splitAmount(cellValue(row, cols[p.DebitCol]), cellValue(row, cols[p.CreditCol]), p.DecimalComma)
	}

	return decimal.Zero, "", false
}

func singleAmount(s string, decimalComma, chargesPositive bool) (decimal.Decimal, transaction.Type, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	amount, err := parseAmount(s, decimalComma)
	if err != nil || amount.IsZero() {
		return decimal.Zero, "", false
	}

	spent := amount.IsNegative()
	if chargesPositive {
		spent = !spent
	}

	if spent {
		return amount.Abs(), transaction.TypeExpense, true
	}

	return amount.Abs(), transaction.TypeIncome, true
}

func splitAmount(debit, credit string, decimalComma bool) (decimal.Decimal, transaction.Type, bool) {
	if debit != "" {
		amount, err := parseAmount(debit, decimalComma)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeExpense, true
		}
	}

	if credit != "" {
		amount, err := parseAmount(credit, decimalComma)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
