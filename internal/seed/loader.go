// Package seed loads the product transaction document from its upstream URL
// and replaces the stored data set with it.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

// ErrInvalidDocument is returned for seed data that is not a valid transaction document.
var ErrInvalidDocument = errors.New("invalid seed document")

// maxDocumentSize bounds how much of the upstream body is read.
const maxDocumentSize = 32 << 20

//go:embed schema.json
var schemaJSON string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource("seed.json", strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("adding schema: %w", err)
	}

	return compiler.Compile("seed.json")
})

// record is one entry of the upstream document.
type record struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Sold        bool            `json:"sold"`
	DateOfSale  time.Time       `json:"dateOfSale"`
}

type Loader struct {
	url          string
	client       *http.Client
	transactions *transaction.Service
}

func NewLoader(url string, timeout time.Duration, txService *transaction.Service) *Loader {
	return &Loader{
		url:          url,
		client:       &http.Client{Timeout: timeout},
		transactions: txService,
	}
}

// Load fetches the upstream document and replaces the stored transactions
// with it. It returns the number of records stored.
func (l *Loader) Load(ctx context.Context) (int, error) {
	params, err := l.Fetch(ctx)
	if err != nil {
		return 0, err
	}

	return l.replace(ctx, params, l.url)
}

// Import replaces the stored transactions with the document read from r.
func (l *Loader) Import(ctx context.Context, r io.Reader, source string) (int, error) {
	params, err := Read(r)
	if err != nil {
		return 0, err
	}

	return l.replace(ctx, params, source)
}

func (l *Loader) replace(ctx context.Context, params []transaction.CreateParams, source string) (int, error) {
	txs, err := l.transactions.Replace(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("replacing transactions: %w", err)
	}

	slog.Info("database initialized with seed data", "source", source, "records", len(txs))

	return len(txs), nil
}

// Fetch downloads, validates and decodes the upstream document.
func (l *Loader) Fetch(ctx context.Context) ([]transaction.CreateParams, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, l.url)
	}

	return Read(resp.Body)
}

// Read decodes a seed document of any supported charset from r.
func Read(r io.Reader) ([]transaction.CreateParams, error) {
	body, err := utf8Reader(io.LimitReader(r, maxDocumentSize))
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading seed data: %w", err)
	}

	return Parse(data)
}

// Parse validates a seed document against the embedded schema and converts it.
func Parse(data []byte) ([]transaction.CreateParams, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding records: %w", ErrInvalidDocument, err)
	}

	params := make([]transaction.CreateParams, len(records))
	for i, r := range records {
		params[i] = transaction.CreateParams{
			Title:       r.Title,
			Description: r.Description,
			Price:       r.Price,
			DateOfSale:  r.DateOfSale.UTC(),
			Sold:        r.Sold,
			Category:    r.Category,
			Image:       r.Image,
		}
	}

	return params, nil
}
