package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/salesboard/internal/database"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction/store"
)

// The store tests replace the whole transactions table, so they only run
// against a database named explicitly for them.
func newStore(t *testing.T) *store.Store {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.Migrate(connStr))

	db, err := database.New(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := store.New(db)
	t.Cleanup(func() { _ = s.ReplaceTransactions(context.Background(), nil) })

	return s
}

func sale(title, description, price, category string, day time.Time, sold bool) *transaction.Transaction {
	return &transaction.Transaction{
		Title:       title,
		Description: description,
		Price:       decimal.RequireFromString(price),
		DateOfSale:  day,
		Sold:        sold,
		Category:    category,
	}
}

func march(t *testing.T) transaction.MonthRange {
	t.Helper()

	rng, err := transaction.NewMonthRange(2024, 3)
	require.NoError(t, err)

	return rng
}

// seedMarch stores five March sales priced 50, 150, 150, 900 and 950, plus
// one sale on each side of the month.
func seedMarch(t *testing.T, s *store.Store) {
	t.Helper()

	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 12, 0, 0, 0, time.UTC) }

	txs := []*transaction.Transaction{
		sale("Widget A", "small", "50", "electronics", day(3, 1), true),
		sale("Gadget", "pocket sized", "150", "electronics", day(3, 2), false),
		sale("Lamp", "desk lamp", "150", "home", day(3, 3), true),
		sale("Chair", "oak", "900", "home", day(3, 4), true),
		sale("Widget B", "large", "950", "electronics", day(3, 5), false),
		sale("Widget C", "february", "20", "electronics", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), true),
		sale("Widget D", "april", "30", "electronics", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), true),
	}

	require.NoError(t, s.ReplaceTransactions(context.Background(), txs))
}

func TestStore_Statistics(t *testing.T) {
	s := newStore(t)
	seedMarch(t, s)

	stats, err := s.Statistics(context.Background(), march(t))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(2200).Equal(stats.TotalAmount), "got %s", stats.TotalAmount)
	assert.Equal(t, 3, stats.TotalSold)
	assert.Equal(t, 2, stats.TotalNotSold)
}

func TestStore_Statistics_EmptyMonth(t *testing.T) {
	s := newStore(t)
	seedMarch(t, s)

	rng, err := transaction.NewMonthRange(2024, 7)
	require.NoError(t, err)

	stats, err := s.Statistics(context.Background(), rng)
	require.NoError(t, err)

	assert.True(t, stats.TotalAmount.IsZero())
	assert.Zero(t, stats.TotalSold)
	assert.Zero(t, stats.TotalNotSold)
}

func TestStore_CountInBucket(t *testing.T) {
	s := newStore(t)
	seedMarch(t, s)

	want := map[string]int{"0-100": 1, "101-200": 2, "801-900": 1, "901-above": 1}

	total := 0

	for _, b := range transaction.PriceBuckets {
		n, err := s.CountInBucket(context.Background(), march(t), b)
		require.NoError(t, err)

		assert.Equal(t, want[b.Label], n, b.Label)

		total += n
	}

	assert.Equal(t, 5, total)
}

func TestStore_CountInBucket_FractionalPrices(t *testing.T) {
	s := newStore(t)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ReplaceTransactions(context.Background(), []*transaction.Transaction{
		sale("Bounds", "", "100", "misc", day, true),
		sale("Between", "", "100.5", "misc", day, true),
		sale("Upper", "", "200", "misc", day, true),
		sale("AboveUpper", "", "200.99", "misc", day, true),
		sale("Top", "", "900.5", "misc", day, true),
	}))

	counts := make(map[string]int)

	for _, b := range transaction.PriceBuckets {
		n, err := s.CountInBucket(context.Background(), march(t), b)
		require.NoError(t, err)

		counts[b.Label] = n
	}

	// Bounds are inclusive integers: 100.5, 200.99 and 900.5 fall between buckets.
	assert.Equal(t, 1, counts["0-100"])
	assert.Equal(t, 1, counts["101-200"])
	assert.Equal(t, 0, counts["801-900"])
	assert.Equal(t, 0, counts["901-above"])
}

func TestStore_CountByCategory(t *testing.T) {
	s := newStore(t)
	seedMarch(t, s)

	got, err := s.CountByCategory(context.Background(), march(t))
	require.NoError(t, err)

	assert.Equal(t, []transaction.CategoryCount{
		{Category: "electronics", Count: 3},
		{Category: "home", Count: 2},
	}, got)
}

func TestStore_FindTransactions(t *testing.T) {
	type testCase struct {
		name       string
		search     string
		limit      int
		offset     int
		wantTitles []string
		wantTotal  int
	}

	tests := []testCase{
		{
			name:       "WholeMonthInDateOrder",
			limit:      10,
			wantTitles: []string{"Widget A", "Gadget", "Lamp", "Chair", "Widget B"},
			wantTotal:  5,
		},
		{
			name:       "TitleCaseInsensitive",
			search:     "WID",
			limit:      10,
			wantTitles: []string{"Widget A", "Widget B"},
			wantTotal:  2,
		},
		{
			name:       "Description",
			search:     "desk",
			limit:      10,
			wantTitles: []string{"Lamp"},
			wantTotal:  1,
		},
		{
			name:       "PriceAsText",
			search:     "150",
			limit:      10,
			wantTitles: []string{"Gadget", "Lamp"},
			wantTotal:  2,
		},
		{
			name:       "WildcardMatchesLiterally",
			search:     "%",
			limit:      10,
			wantTitles: []string{},
			wantTotal:  0,
		},
		{
			name:       "SecondPage",
			limit:      2,
			offset:     2,
			wantTitles: []string{"Lamp", "Chair"},
			wantTotal:  5,
		},
		{
			name:       "PastTheEnd",
			limit:      10,
			offset:     50,
			wantTitles: []string{},
			wantTotal:  5,
		},
	}

	s := newStore(t)
	seedMarch(t, s)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := transaction.Filter{Range: march(t), Search: tt.search}

			txs, err := s.FindTransactions(context.Background(), filter, tt.limit, tt.offset)
			require.NoError(t, err)

			titles := make([]string, 0, len(txs))
			for _, tx := range txs {
				titles = append(titles, tx.Title)
			}

			assert.Equal(t, tt.wantTitles, titles)

			total, err := s.CountTransactions(context.Background(), filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestStore_ReplaceTransactions_Idempotent(t *testing.T) {
	s := newStore(t)

	seedMarch(t, s)
	seedMarch(t, s)

	n, err := s.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	txs, err := s.FindTransactions(context.Background(), transaction.Filter{Range: march(t)}, 1, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.NotEqual(t, uuid.Nil, txs[0].ID)
	assert.True(t, decimal.NewFromInt(50).Equal(txs[0].Price))
	assert.False(t, txs[0].CreatedAt.IsZero())
}
