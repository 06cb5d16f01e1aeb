package faq

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// LoadCSV reads FAQ entries from a Latin-1 encoded CSV file with a header row
// of Pergunta,Resposta. Each question is tokenized into lowercase keywords.
func LoadCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FAQ file: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQ header: %w", err)
	}
	if len(header) != 2 {
		return nil, fmt.Errorf("unexpected FAQ header: %v", header)
	}

	var entries []Entry
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read FAQ line %d: %w", line, err)
		}
		question := strings.TrimSpace(row[0])
		answer := strings.TrimSpace(row[1])
		if question == "" || answer == "" {
			return nil, fmt.Errorf("empty question or answer at line %d", line)
		}
		entries = append(entries, Entry{
			Keywords: strings.Fields(strings.ToLower(question)),
			Answer:   answer,
		})
	}
	return entries, nil
}
