package importer

import (
	"io"

	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// FormatAuto lets the parser pick the layout from the header row.
const FormatAuto = "auto"

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
