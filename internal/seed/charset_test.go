package seed

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := utf8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestUTF8Reader_Passthrough(t *testing.T) {
	input := `[{"title":"Café crème","category":"groceries"}]`
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestUTF8Reader_Windows1252(t *testing.T) {
	// "Café" with é encoded as 0xE9.
	input := []byte{'"', 'C', 'a', 'f', 0xE9, '"'}
	assert.Equal(t, `"Café"`, readAll(t, input))
}

func TestUTF8Reader_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`[]`)...)
	assert.Equal(t, `[]`, readAll(t, input))
}

func TestUTF8Reader_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()

	input, err := enc.Bytes([]byte(`[{"title":"Ação"}]`))
	require.NoError(t, err)

	assert.Equal(t, `[{"title":"Ação"}]`, readAll(t, input))
}

func TestUTF8Reader_RuneAcrossSniffBoundary(t *testing.T) {
	// Place a two-byte rune so it straddles the sniff buffer edge.
	input := strings.Repeat("a", sniffSize-1) + "é" + strings.Repeat("b", 10)
	assert.Equal(t, input, readAll(t, []byte(input)))
}
