package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsResponse aggregates advance request totals for a time range
type StatisticsResponse struct {
	ByStatus           []StatusTotal   `json:"by_status"`
	TopClients         []ClientRanking `json:"top_clients"`
	TimeRangeStartDate time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time       `json:"time_range_end_date"`
}

// StatusTotal counts requests in one status and sums their item snapshots
type StatusTotal struct {
	Status   AdvanceRequestStatus `json:"status"`
	Requests int                  `json:"requests"`
	Amount   decimal.Decimal      `json:"amount"`
}

// ClientRanking represents a client ranked by approved advance amount
type ClientRanking struct {
	ClientID    string          `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Requests    int             `json:"requests"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
