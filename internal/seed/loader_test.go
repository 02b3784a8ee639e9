package seed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/salesboard/internal/seed"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

const seedDocument = `[
	{
		"id": 1,
		"title": "Fjallraven  - Foldsack No. 1 Backpack, Fits 15 Laptops",
		"price": 329.85,
		"description": "Your perfect pack for everyday use and walks in the forest.",
		"category": "men's clothing",
		"image": "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		"sold": false,
		"dateOfSale": "2021-11-27T20:29:54+05:30"
	},
	{
		"id": 2,
		"title": "Mens Casual Premium Slim Fit T-Shirts ",
		"price": 44.6,
		"description": "Slim-fitting style, contrast raglan long sleeve.",
		"category": "men's clothing",
		"image": "https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg",
		"sold": true,
		"dateOfSale": "2021-10-27T20:29:54+05:30"
	}
]`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	return ts
}

func TestParse(t *testing.T) {
	params, err := seed.Parse([]byte(seedDocument))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "men's clothing", params[0].Category)
	assert.Equal(t, "329.85", params[0].Price.String())
	assert.False(t, params[0].Sold)
	assert.Equal(t, time.Date(2021, 11, 27, 14, 59, 54, 0, time.UTC), params[0].DateOfSale)
	assert.True(t, params[1].Sold)
}

func TestParse_Invalid(t *testing.T) {
	type testCase struct {
		name string
		doc  string
	}

	tests := []testCase{
		{name: "NotJSON", doc: `<html>`},
		{name: "NotAnArray", doc: `{"title":"x"}`},
		{name: "NegativePrice", doc: `[{"title":"x","price":-1,"category":"a","sold":true,"dateOfSale":"2021-11-27T20:29:54Z"}]`},
		{name: "MissingSold", doc: `[{"title":"x","price":1,"category":"a","dateOfSale":"2021-11-27T20:29:54Z"}]`},
		{name: "BadDate", doc: `[{"title":"x","price":1,"category":"a","sold":true,"dateOfSale":"yesterday"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, seed.ErrInvalidDocument)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newServer(t, http.StatusOK, seedDocument)

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ReplaceTransactions(gomock.Any(), gomock.Len(2)).
		Return(nil).
		Times(2)

	loader := seed.NewLoader(ts.URL, 5*time.Second, transaction.NewService(repo))

	// Loading the same document twice stores the same number of records.
	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, first, second)
}

func TestLoader_Load_UpstreamFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newServer(t, http.StatusInternalServerError, "boom")

	// The store must not be touched when the upstream fetch fails.
	repo := transaction.NewMockRepository(ctrl)
	loader := seed.NewLoader(ts.URL, 5*time.Second, transaction.NewService(repo))

	n, err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestLoader_Load_InvalidDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newServer(t, http.StatusOK, `[{"title":"x"}]`)

	repo := transaction.NewMockRepository(ctrl)
	loader := seed.NewLoader(ts.URL, 5*time.Second, transaction.NewService(repo))

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ReplaceTransactions(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			assert.Equal(t, "Mens Casual Premium Slim Fit T-Shirts ", txs[1].Title)
			return nil
		})

	loader := seed.NewLoader("", time.Second, transaction.NewService(repo))

	n, err := loader.Import(context.Background(), strings.NewReader(seedDocument), "upload.json")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
