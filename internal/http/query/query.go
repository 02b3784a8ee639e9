// Package query parses the month, paging and search parameters shared by the API routes.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

// ErrBadRequest marks a malformed query parameter.
var ErrBadRequest = errors.New("bad request")

// MonthRange reads the month and optional year query parameters.
// The year defaults to the current one.
func MonthRange(q url.Values, now time.Time) (transaction.MonthRange, error) {
	s := q.Get("month")
	if s == "" {
		return transaction.MonthRange{}, fmt.Errorf("%w: month is required", ErrBadRequest)
	}

	month, err := strconv.Atoi(s)
	if err != nil {
		return transaction.MonthRange{}, fmt.Errorf("%w: invalid month %q", ErrBadRequest, s)
	}

	year := now.Year()

	if s := q.Get("year"); s != "" {
		year, err = strconv.Atoi(s)
		if err != nil || year < 1 || year > 9999 {
			return transaction.MonthRange{}, fmt.Errorf("%w: invalid year %q", ErrBadRequest, s)
		}
	}

	rng, err := transaction.NewMonthRange(year, month)
	if err != nil {
		return transaction.MonthRange{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return rng, nil
}

func positive(q url.Values, key string, def, maxValue int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || (maxValue > 0 && n > maxValue) {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, key, s)
	}

	return n, nil
}

func ListParams(q url.Values, now time.Time) (transaction.ListParams, error) {
	rng, err := MonthRange(q, now)
	if err != nil {
		return transaction.ListParams{}, err
	}

	page, err := positive(q, "page", transaction.DefaultPage, transaction.MaxPage)
	if err != nil {
		return transaction.ListParams{}, err
	}

	perPage, err := positive(q, "perPage", transaction.DefaultPerPage, transaction.MaxPerPage)
	if err != nil {
		return transaction.ListParams{}, err
	}

	return transaction.ListParams{
		Range:   rng,
		Search:  q.Get("search"),
		Page:    page,
		PerPage: perPage,
	}, nil
}
