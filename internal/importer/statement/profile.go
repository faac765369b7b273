package statement

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column, e.g. "Valor" holding "-10,00".
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of one bank's CSV export. Column
// names are matched case-insensitively after trimming.
type Profile struct {
	Name string

	Comma        rune
	DateLayout   string
	DecimalComma bool // "1.234,56" rather than "1,234.56"

	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit

	// ChargesPositive marks card exports where a positive amount is money
	// spent and a negative one is a payment or refund.
	ChargesPositive bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order, so layouts whose columns are a superset of
// another's come first.
var profiles = []Profile{
	{
		Name:         "inter",
		Comma:        ';',
		DateLayout:   "02/01/2006",
		DecimalComma: true,
		DateCol:      "data lançamento",
		DescCol:      "descrição",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
	},
	{
		Name:         "itau",
		Comma:        ';',
		DateLayout:   "02/01/2006",
		DecimalComma: true,
		DateCol:      "data",
		DescCol:      "lançamento",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
	},
	{
		Name:         "cartao",
		Comma:        ';',
		DateLayout:   "02/01/2006",
		DecimalComma: true,
		DateCol:      "data",
		DescCol:      "descrição",
		AmountMode:   amountSplit,
		DebitCol:     "débito",
		CreditCol:    "crédito",
	},
	{
		Name:         "generico",
		Comma:        ';',
		DateLayout:   "02/01/2006",
		DecimalComma: true,
		DateCol:      "data",
		DescCol:      "descrição",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
	},
	{
		Name:       "nubank-conta",
		Comma:      ',',
		DateLayout: "02/01/2006",
		DateCol:    "data",
		DescCol:    "descrição",
		AmountMode: amountSingle,
		AmountCol:  "valor",
	},
	{
		Name:            "nubank-cartao",
		Comma:           ',',
		DateLayout:      "2006-01-02",
		DateCol:         "date",
		DescCol:         "title",
		AmountMode:      amountSingle,
		AmountCol:       "amount",
		ChargesPositive: true,
	},
}

// Profiles returns the names of the supported layouts.
func Profiles() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}

	return names
}
