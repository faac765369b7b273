package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/agency/internal/encoding"
)

const header = "Data;Histórico;Descrição;Valor\n05/03/2024;PIX RECEBIDO;Padaria São João;1.500,00\n"

func decode(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset encoding.Charset
	}{
		{name: "UTF8", input: []byte(header), wantCharset: encoding.UTF8},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, header...), wantCharset: encoding.UTF8},
		{name: "UTF16LE", input: utf16le, wantCharset: encoding.UTF16LE},
		{name: "UTF16BE", input: utf16be, wantCharset: encoding.UTF16BE},
		{name: "Latin1", input: latin1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := decode(t, tt.input)
			assert.Equal(t, header, got)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			} else {
				assert.NotEqual(t, encoding.UTF8, charset)
			}
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := decode(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_LargerThanSniffWindow(t *testing.T) {
	body := bytes.Repeat([]byte("05/03/2024;TARIFA;Manutenção;-12,90\n"), 400)

	got, _ := decode(t, body)
	assert.Equal(t, string(body), got)
}
