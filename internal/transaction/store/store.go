package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, title, description, price, date_of_sale, sold, category, image, created_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	if err := s.Scan(
		&tx.ID, &tx.Title, &tx.Description, &tx.Price, &tx.DateOfSale,
		&tx.Sold, &tx.Category, &tx.Image, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.title, t.description, t.price, t.date_of_sale,
	t.sold, t.category, t.image, t.created_at
`

var copyColumns = []string{"id", "title", "description", "price", "date_of_sale", "sold", "category", "image", "created_at"}

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause builds the month and search predicate shared by listing and counting.
func whereClause(filter transaction.Filter) (string, []any) {
	clause := "t.date_of_sale >= $1 AND t.date_of_sale < $2"
	args := []any{filter.Range.Start, filter.Range.End}

	if filter.Search != "" {
		clause += ` AND (t.title ILIKE $3 OR t.description ILIKE $3 OR t.price::text ILIKE $3)`

		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
	}

	return clause, args
}

func (s *Store) FindTransactions(ctx context.Context, filter transaction.Filter, limit, offset int) ([]*transaction.Transaction, error) {
	where, args := whereClause(filter)

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY t.date_of_sale ASC, t.id ASC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter transaction.Filter) (int, error) {
	where, args := whereClause(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return n, nil
}

func (s *Store) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting all transactions: %w", err)
	}

	return n, nil
}

func (s *Store) Statistics(ctx context.Context, rng transaction.MonthRange) (*transaction.Statistics, error) {
	query := `
		SELECT
			COALESCE(SUM(price), 0),
			COUNT(*) FILTER (WHERE sold),
			COUNT(*) FILTER (WHERE NOT sold)
		FROM transactions
		WHERE date_of_sale >= $1 AND date_of_sale < $2
	`

	var stats transaction.Statistics
	if err := s.db.QueryRowContext(ctx, query, rng.Start, rng.End).Scan(
		&stats.TotalAmount, &stats.TotalSold, &stats.TotalNotSold,
	); err != nil {
		return nil, fmt.Errorf("computing statistics: %w", err)
	}

	return &stats, nil
}

func (s *Store) CountInBucket(ctx context.Context, rng transaction.MonthRange, bucket transaction.PriceBucket) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE date_of_sale >= $1 AND date_of_sale < $2
			AND price >= $3
			AND ($4::numeric IS NULL OR price <= $4::numeric)
	`

	var upper *string
	if bucket.Max != nil {
		upper = new(bucket.Max.String())
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, rng.Start, rng.End, bucket.Min.String(), upper).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting bucket %s: %w", bucket.Label, err)
	}

	return n, nil
}

func (s *Store) CountByCategory(ctx context.Context, rng transaction.MonthRange) ([]transaction.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM transactions
		WHERE date_of_sale >= $1 AND date_of_sale < $2
		GROUP BY category
		ORDER BY category ASC
	`

	rows, err := s.db.QueryContext(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("grouping by category: %w", err)
	}
	defer rows.Close()

	var out []transaction.CategoryCount

	for rows.Next() {
		var c transaction.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return out, nil
}

// ReplaceTransactions deletes every stored transaction and bulk-loads txs with
// COPY, all inside one database transaction. IDs and creation times are
// assigned here.
func (s *Store) ReplaceTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		pgConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}

		dbTx, err := pgConn.Conn().Begin(ctx)
		if err != nil {
			return fmt.Errorf("beginning replace tx: %w", err)
		}
		defer dbTx.Rollback(ctx)

		if _, err := dbTx.Exec(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("deleting transactions: %w", err)
		}

		now := time.Now().UTC()

		rows := make([][]any, len(txs))
		for i, tx := range txs {
			tx.ID = uuid.New()
			tx.CreatedAt = now
			rows[i] = []any{
				tx.ID, tx.Title, tx.Description, numeric(tx.Price),
				tx.DateOfSale, tx.Sold, tx.Category, tx.Image, tx.CreatedAt,
			}
		}

		if _, err := dbTx.CopyFrom(ctx, pgx.Identifier{"transactions"}, copyColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copying transactions: %w", err)
		}

		if err := dbTx.Commit(ctx); err != nil {
			return fmt.Errorf("committing replace tx: %w", err)
		}

		return nil
	})
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
