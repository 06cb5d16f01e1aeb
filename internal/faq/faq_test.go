package faq

import (
	"os"
	"path/filepath"
	"testing"

	boterrors "github.com/savastore/whatsbot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Index_Answer(t *testing.T) {
	// given
	idx := NewIndex([]Entry{
		{Keywords: []string{"entrega", "frete"}, Answer: "A entrega é grátis acima de R$299."},
		{Keywords: []string{"alexa", "configurar"}, Answer: "Baixe o aplicativo Alexa."},
		{Keywords: []string{"parcelar", "parcelamento"}, Answer: "Parcelamos em até 12x."},
	})

	testCases := []struct {
		name     string
		question string
		expected string
		found    bool
	}{
		{name: "keyword as substring", question: "como funciona a entrega?", expected: "A entrega é grátis acima de R$299.", found: true},
		{name: "case-insensitive", question: "Posso PARCELAR?", expected: "Parcelamos em até 12x.", found: true},
		{name: "second keyword of an entry", question: "qual o valor do frete", expected: "A entrega é grátis acima de R$299.", found: true},
		{name: "no match", question: "vendem videogame?", found: false},
		{name: "empty question", question: "", found: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			answer, err := idx.Answer(tc.question)
			// then
			if !tc.found {
				assert.ErrorIs(t, err, boterrors.ErrAnswerNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, answer)
		})
	}
}

func Test_Index_Answer_FirstMatchWins(t *testing.T) {
	// given two entries that both match "entrega"; load order is the tie-break
	idx := NewIndex([]Entry{
		{Keywords: []string{"entrega"}, Answer: "primeira resposta"},
		{Keywords: []string{"entrega", "prazo"}, Answer: "segunda resposta"},
	})

	// when
	answer, err := idx.Answer("qual o prazo de entrega?")

	// then
	require.NoError(t, err)
	assert.Equal(t, "primeira resposta", answer)
}

func Test_LoadCSV(t *testing.T) {
	// given a Latin-1 encoded FAQ file (\xe9 is "é")
	content := "Pergunta,Resposta\n" +
		"Entrega gr\xe1tis,\"Sim! A entrega \xe9 gr\xe1tis acima de R$299.\"\n" +
		"Posso parcelar,\"Sim, em at\xe9 12x.\"\n"
	path := filepath.Join(t.TempDir(), "faqs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// when
	entries, err := LoadCSV(path)

	// then
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"entrega", "grátis"}, entries[0].Keywords)
	assert.Equal(t, "Sim! A entrega é grátis acima de R$299.", entries[0].Answer)

	idx := NewIndex(entries)
	answer, err := idx.Answer("a entrega é grátis?")
	require.NoError(t, err)
	assert.Equal(t, entries[0].Answer, answer)
}

func Test_LoadCSV_RejectsEmptyRows(t *testing.T) {
	// given
	content := "Pergunta,Resposta\nEntrega,\n"
	path := filepath.Join(t.TempDir(), "faqs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// when
	_, err := LoadCSV(path)

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty question or answer")
}
