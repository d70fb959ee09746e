package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sadaqa/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "UTF8Passthrough",
			input: []byte("fullName,address\nகமால் முஹம்மத்,Kandy\n"),
			want:  "fullName,address\nகமால் முஹம்மத்,Kandy\n",
		},
		{
			name:  "UTF8BOMStripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("fullName\nAisha\n")...),
			want:  "fullName\nAisha\n",
		},
		{
			name:  "UTF16LEWithBOM",
			input: []byte{0xFF, 0xFE, 'I', 0, 'd', 0, '\n', 0},
			want:  "Id\n",
		},
		{
			name:  "UTF16BEWithBOM",
			input: []byte{0xFE, 0xFF, 0, 'I', 0, 'd', 0, '\n'},
			want:  "Id\n",
		},
		{
			name:  "Windows1252",
			input: []byte{'J', 'o', 's', 0xE9, ',', 'C', 'a', 'f', 0xE9, '\n'},
			want:  "José,Café\n",
		},
		{
			name:  "Empty",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_LongUTF8Input(t *testing.T) {
	// Multi-byte runes straddle the sniffing window.
	input := strings.Repeat("ஸதகா,", 2000)

	assert.Equal(t, input, decode(t, []byte(input)))
}
