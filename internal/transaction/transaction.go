package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// Transaction is a single product sale record.
type Transaction struct {
	ID          uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	DateOfSale  time.Time
	Sold        bool
	Category    string
	Image       string
	CreatedAt   time.Time
}

// Statistics summarises the transactions of one month.
type Statistics struct {
	TotalAmount  decimal.Decimal
	TotalSold    int
	TotalNotSold int
}

// BucketCount is the number of transactions in one price bucket.
type BucketCount struct {
	Range string
	Count int
}

// CategoryCount is the number of transactions of one category.
type CategoryCount struct {
	Category string
	Count    int
}
