package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/agency/internal/importer/statement"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestParser_Formats(t *testing.T) {
	type want struct {
		date   civil.Date
		desc   string
		amount string
		typ    transaction.Type
	}

	tests := []struct {
		name string
		csv  string
		want []want
	}{
		{
			name: "Inter",
			csv: `Extrato Conta Corrente
Conta ;12345-6
Período ;01/03/2024 a 31/03/2024
Saldo ;10.000,00

Data Lançamento;Histórico;Descrição;Valor;Saldo
05/03/2024;Pix recebido;Padaria Central;1.500,00;11.500,00
07/03/2024;Pix enviado;Adobe;-275,90;11.224,10
`,
			want: []want{
				{date(2024, time.March, 5), "Padaria Central", "1500", transaction.TypeIncome},
				{date(2024, time.March, 7), "Adobe", "275.9", transaction.TypeExpense},
			},
		},
		{
			name: "Itau",
			csv: `data;lançamento;valor
02/04/2024;TED RECEBIDA CLINICA SORRIR;3.200,00
03/04/2024;SALDO DO DIA;
04/04/2024;TAR PACOTE;-49,90
`,
			want: []want{
				{date(2024, time.April, 2), "TED RECEBIDA CLINICA SORRIR", "3200", transaction.TypeIncome},
				{date(2024, time.April, 4), "TAR PACOTE", "49.9", transaction.TypeExpense},
			},
		},
		{
			name: "CartaoSplit",
			csv: `Data ;Descrição ;Débito ;Crédito ;
16/12/2023 ;UBER *TRIP ;47,91 ; ;
20/12/2023 ;ESTORNO AMAZON ; ;25,00 ;
 ; ; ; ;Página 1/2 ;
`,
			want: []want{
				{date(2023, time.December, 16), "UBER *TRIP", "47.91", transaction.TypeExpense},
				{date(2023, time.December, 20), "ESTORNO AMAZON", "25", transaction.TypeIncome},
			},
		},
		{
			name: "NubankConta",
			csv: `Data,Valor,Identificador,Descrição
01/02/2024,-89.90,abc-1,Compra no débito - Notion
05/02/2024,"1,250.00",abc-2,Transferência recebida pelo Pix - Studio Lume
`,
			want: []want{
				{date(2024, time.February, 1), "Compra no débito - Notion", "89.9", transaction.TypeExpense},
				{date(2024, time.February, 5), "Transferência recebida pelo Pix - Studio Lume", "1250", transaction.TypeIncome},
			},
		},
		{
			name: "NubankCartao",
			csv: `date,category,title,amount
2024-02-10,serviços,Canva,34.90
2024-02-12,,Pagamento recebido,-500.00
`,
			want: []want{
				{date(2024, time.February, 10), "Canva", "34.9", transaction.TypeExpense},
				{date(2024, time.February, 12), "Pagamento recebido", "500", transaction.TypeIncome},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := statement.NewParser().Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			require.Len(t, txs, len(tt.want))

			for i, w := range tt.want {
				assert.Equal(t, w.date, txs[i].Date)
				assert.Equal(t, w.desc, txs[i].Description)
				assert.Equal(t, w.desc, txs[i].RawDescription)
				assert.Equal(t, w.amount, txs[i].Amount.String())
				assert.Equal(t, w.typ, txs[i].Type)
			}
		})
	}
}

func TestParser_Latin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data;Descrição;Valor\n30/01/2024;CAFÉ SÃO BENTO;-10,00\n"))
	require.NoError(t, err)

	txs, err := statement.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "CAFÉ SÃO BENTO", txs[0].RawDescription)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Relatório
Valor;Descrição;Data;Ignorado
-10,00;TESTE;30/01/2024;X
`

	txs, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "TESTE", txs[0].Description)
	assert.Equal(t, "10", txs[0].Amount.String())
}

func TestParser_LargeAmount(t *testing.T) {
	txs, err := statement.NewParser().Parse(strings.NewReader("Data;Descrição;Valor\n30/01/2024;AQUISICAO;R$ -1.234.567,89\n"))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "1234567.89", txs[0].Amount.String())
}

func TestParser_Errors(t *testing.T) {
	_, err := statement.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, statement.ErrUnknownFormat)

	_, err = statement.NewParser().Parse(strings.NewReader("Data;Descrição;Valor\n30/01/2024;;-10,00\n"))
	assert.ErrorContains(t, err, "row 2: missing description")

	txs, err := statement.NewParser().Parse(strings.NewReader("Data;Descrição;Valor"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestNewProfileParser(t *testing.T) {
	_, err := statement.NewProfileParser("bradesco")
	assert.ErrorIs(t, err, statement.ErrUnknownProfile)

	p, err := statement.NewProfileParser("itau")
	require.NoError(t, err)

	_, err = p.Parse(strings.NewReader("Data;Descrição;Valor\n30/01/2024;X;-10,00\n"))
	assert.ErrorIs(t, err, statement.ErrUnknownFormat)

	assert.Contains(t, statement.Profiles(), "nubank-conta")
}
