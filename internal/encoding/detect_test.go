package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/encoding"
)

func TestNormalize(t *testing.T) {
	const want = "[[clients]]\nname = \"Conceição\"\n"

	tests := []struct {
		name    string
		input   []byte
		charset encoding.Charset
	}{
		{
			name:    "UTF8",
			input:   []byte(want),
			charset: encoding.UTF8,
		},
		{
			name:    "UTF8WithBOM",
			input:   append([]byte{0xEF, 0xBB, 0xBF}, want...),
			charset: encoding.UTF8,
		},
		{
			name: "Windows1252",
			// ç = 0xE7, ã = 0xE3
			input:   []byte("[[clients]]\nname = \"Concei\xe7\xe3o\"\n"),
			charset: encoding.Windows1252,
		},
		{
			name: "UTF16LE",
			input: func() []byte {
				b := []byte{0xFF, 0xFE}
				for _, r := range want {
					b = append(b, byte(r), byte(r>>8))
				}

				return b
			}(),
			charset: encoding.UTF16LE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Normalize(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, want, string(got))
			assert.Equal(t, tt.charset, charset)
		})
	}
}

func TestNormalize_RuneSplitAtWindow(t *testing.T) {
	// "ç" straddles the sniffed window.
	input := strings.Repeat("a", 4095) + "ç"

	r, charset, err := encoding.Normalize(strings.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, input, string(got))
}
