package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLatin1 writes raw bytes so the fixtures carry real ISO8859-1 content
// (\xe7\xf5 is "çõ" in Latin-1).
func writeLatin1(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_LoadCSV(t *testing.T) {
	header := "Produto,Preco,Estoque,Especifica\xe7\xf5es\n"

	testCases := []struct {
		name      string
		content   string
		expectErr string
		expected  int
	}{
		{
			name: "Success - comma decimal separator and quoted fields",
			content: header +
				"iPhone 15,\"7599,99\",12,\"Tela de 6.1 polegadas, 128GB\"\n" +
				"Capa iPhone 15,\"99,00\",50,Capa protetora em silicone\n",
			expected: 2,
		},
		{
			name:      "Error - non-numeric price",
			content:   header + "iPhone 15,caro,12,Tela\n",
			expectErr: "malformed catalog record",
		},
		{
			name:      "Error - non-integer stock",
			content:   header + "iPhone 15,\"7599,99\",muitos,Tela\n",
			expectErr: "malformed catalog record",
		},
		{
			name:      "Error - missing product name",
			content:   header + ",\"10,00\",1,Tela\n",
			expectErr: "invalid catalog record",
		},
		{
			name:      "Error - wrong column count",
			content:   header + "iPhone 15,\"7599,99\"\n",
			expectErr: "failed to read catalog line",
		},
		{
			name:      "Error - empty file",
			content:   "",
			expectErr: "failed to read catalog header",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			path := writeLatin1(t, tc.content)
			// when
			products, err := LoadCSV(path)
			// then
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, products, tc.expected)
		})
	}
}

func Test_LoadCSV_DecodesLatin1AndNormalizesPrice(t *testing.T) {
	// given
	content := "Produto,Preco,Estoque,Especifica\xe7\xf5es\n" +
		"Fone Bluetooth,\"249,90\",7,\"Conex\xe3o sem fio, 20h de bateria\"\n"
	path := writeLatin1(t, content)

	// when
	products, err := LoadCSV(path)

	// then
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Fone Bluetooth", products[0].Name)
	assert.Equal(t, "249.90", products[0].Price.StringFixed(2))
	assert.Equal(t, int32(7), products[0].Stock)
	assert.Equal(t, "Conexão sem fio, 20h de bateria", products[0].Specification)
}

func Test_LoadCSV_FileNotFound(t *testing.T) {
	// when
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}
