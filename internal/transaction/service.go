package transaction

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100

	// MaxPage keeps the row offset of any accepted page within int.
	MaxPage = math.MaxInt / MaxPerPage
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	FindTransactions(ctx context.Context, filter Filter, limit, offset int) ([]*Transaction, error)
	CountTransactions(ctx context.Context, filter Filter) (int, error)
	CountAll(ctx context.Context) (int, error)

	Statistics(ctx context.Context, rng MonthRange) (*Statistics, error)
	CountInBucket(ctx context.Context, rng MonthRange, bucket PriceBucket) (int, error)
	CountByCategory(ctx context.Context, rng MonthRange) ([]CategoryCount, error)

	ReplaceTransactions(ctx context.Context, txs []*Transaction) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Filter selects the transactions of a month, optionally narrowed by a
// case-insensitive substring of title, description or price.
type Filter struct {
	Range  MonthRange
	Search string
}

type ListParams struct {
	Range   MonthRange
	Search  string
	Page    int
	PerPage int
}

type Page struct {
	Transactions []*Transaction
	Total        int
	Page         int
	PerPage      int
}

type Combined struct {
	Statistics   *Statistics
	BarChartData []BucketCount
	PieChartData []CategoryCount
}

type CreateParams struct {
	Title       string
	Description string
	Price       decimal.Decimal
	DateOfSale  time.Time
	Sold        bool
	Category    string
	Image       string
}

// List returns one page of matching transactions together with the total
// number of matches.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	if params.Page < 1 {
		params.Page = DefaultPage
	}

	if params.PerPage < 1 {
		params.PerPage = DefaultPerPage
	}

	filter := Filter{Range: params.Range, Search: params.Search}

	txs := []*Transaction{}

	// A page whose offset overflows is past the end of any data set.
	if params.Page-1 <= math.MaxInt/params.PerPage {
		found, err := s.repo.FindTransactions(ctx, filter, params.PerPage, (params.Page-1)*params.PerPage)
		if err != nil {
			return nil, fmt.Errorf("find transactions: %w", err)
		}

		if found != nil {
			txs = found
		}
	}

	total, err := s.repo.CountTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	return &Page{
		Transactions: txs,
		Total:        total,
		Page:         params.Page,
		PerPage:      params.PerPage,
	}, nil
}

// Statistics returns the month totals. A month without data yields zeros.
func (s *Service) Statistics(ctx context.Context, rng MonthRange) (*Statistics, error) {
	stats, err := s.repo.Statistics(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}

	if stats == nil {
		return &Statistics{TotalAmount: decimal.Zero}, nil
	}

	return stats, nil
}

// PriceHistogram counts the month's transactions per price bucket. Buckets
// are counted concurrently; the result keeps PriceBuckets order.
func (s *Service) PriceHistogram(ctx context.Context, rng MonthRange) ([]BucketCount, error) {
	counts := make([]BucketCount, len(PriceBuckets))

	g, ctx := errgroup.WithContext(ctx)

	for i, b := range PriceBuckets {
		g.Go(func() error {
			n, err := s.repo.CountInBucket(ctx, rng, b)
			if err != nil {
				return fmt.Errorf("count bucket %s: %w", b.Label, err)
			}

			counts[i] = BucketCount{Range: b.Label, Count: n}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (s *Service) CategoryBreakdown(ctx context.Context, rng MonthRange) ([]CategoryCount, error) {
	categories, err := s.repo.CountByCategory(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	if categories == nil {
		categories = []CategoryCount{}
	}

	return categories, nil
}

// Combined computes statistics, histogram and category breakdown for a month.
func (s *Service) Combined(ctx context.Context, rng MonthRange) (*Combined, error) {
	var out Combined

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.Statistics(ctx, rng)
		out.Statistics = stats

		return err
	})

	g.Go(func() error {
		bars, err := s.PriceHistogram(ctx, rng)
		out.BarChartData = bars

		return err
	})

	g.Go(func() error {
		pie, err := s.CategoryBreakdown(ctx, rng)
		out.PieChartData = pie

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &out, nil
}

// Replace swaps the whole stored data set for the given records.
func (s *Service) Replace(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	txs := make([]*Transaction, len(params))

	for i, p := range params {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		txs[i] = &Transaction{
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			DateOfSale:  p.DateOfSale,
			Sold:        p.Sold,
			Category:    p.Category,
			Image:       p.Image,
		}
	}

	if err := s.repo.ReplaceTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("replace transactions: %w", err)
	}

	return txs, nil
}

// Count returns the number of stored transactions.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountAll(ctx)
}

func validate(p CreateParams) error {
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: negative price %s", ErrInvalidTransaction, p.Price)
	}

	if p.DateOfSale.IsZero() {
		return fmt.Errorf("%w: missing date of sale", ErrInvalidTransaction)
	}

	return nil
}
