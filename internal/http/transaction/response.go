package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Sold        bool      `json:"sold"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PerPage      int                   `json:"perPage"`
}

type statisticsResponse struct {
	TotalAmount  float64 `json:"totalAmount"`
	TotalSold    int     `json:"totalSold"`
	TotalNotSold int     `json:"totalNotSold"`
}

type bucketResponse struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type categoryResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type combinedResponse struct {
	Statistics   statisticsResponse `json:"statistics"`
	BarChartData []bucketResponse   `json:"barChartData"`
	PieChartData []categoryResponse `json:"pieChartData"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Title:       tx.Title,
		Description: tx.Description,
		Price:       tx.Price.InexactFloat64(),
		DateOfSale:  tx.DateOfSale,
		Sold:        tx.Sold,
		Category:    tx.Category,
		Image:       tx.Image,
	}
}

func toListResponse(page *transaction.Page) listResponse {
	resp := listResponse{
		Transactions: make([]transactionResponse, len(page.Transactions)),
		Total:        page.Total,
		Page:         page.Page,
		PerPage:      page.PerPage,
	}

	for i, tx := range page.Transactions {
		resp.Transactions[i] = toResponse(tx)
	}

	return resp
}

func toStatisticsResponse(stats *transaction.Statistics) statisticsResponse {
	return statisticsResponse{
		TotalAmount:  stats.TotalAmount.Round(2).InexactFloat64(),
		TotalSold:    stats.TotalSold,
		TotalNotSold: stats.TotalNotSold,
	}
}

func toBucketResponses(buckets []transaction.BucketCount) []bucketResponse {
	resp := make([]bucketResponse, len(buckets))
	for i, b := range buckets {
		resp[i] = bucketResponse{Range: b.Range, Count: b.Count}
	}

	return resp
}

func toCategoryResponses(categories []transaction.CategoryCount) []categoryResponse {
	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = categoryResponse{Category: c.Category, Count: c.Count}
	}

	return resp
}

func toCombinedResponse(c *transaction.Combined) combinedResponse {
	return combinedResponse{
		Statistics:   toStatisticsResponse(c.Statistics),
		BarChartData: toBucketResponses(c.BarChartData),
		PieChartData: toCategoryResponses(c.PieChartData),
	}
}
