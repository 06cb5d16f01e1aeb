package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// csvRecord carries one raw catalog row before conversion. Prices use a comma
// decimal separator in the source files.
type csvRecord struct {
	Name          string `validate:"required,max=120"`
	Price         string `validate:"required"`
	Stock         string `validate:"required"`
	Specification string
}

// LoadCSV reads product records from a Latin-1 encoded CSV file with a header
// row of Produto,Preco,Estoque,Especificações. Any malformed row aborts the
// load: the process must not serve traffic with an inconsistent catalog.
func LoadCSV(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]Product, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = 4

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}
	if len(header) != 4 {
		return nil, fmt.Errorf("unexpected catalog header: %v", header)
	}

	validate := validator.New()
	var products []Product
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog line %d: %w", line, err)
		}
		record := csvRecord{
			Name:          strings.TrimSpace(row[0]),
			Price:         strings.TrimSpace(row[1]),
			Stock:         strings.TrimSpace(row[2]),
			Specification: strings.TrimSpace(row[3]),
		}
		if err := validate.Struct(record); err != nil {
			return nil, fmt.Errorf("invalid catalog record at line %d: %w", line, err)
		}
		product, err := toProduct(record)
		if err != nil {
			return nil, fmt.Errorf("malformed catalog record at line %d: %w", line, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// toProduct converts a raw row, normalizing the comma decimal separator.
func toProduct(r csvRecord) (Product, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(r.Price, ",", "."))
	if err != nil {
		return Product{}, fmt.Errorf("non-numeric price %q: %w", r.Price, err)
	}
	stock, err := strconv.ParseInt(r.Stock, 10, 32)
	if err != nil {
		return Product{}, fmt.Errorf("non-integer stock %q: %w", r.Stock, err)
	}
	return Product{
		Name:          r.Name,
		Price:         price,
		Stock:         int32(stock),
		Specification: r.Specification,
	}, nil
}
