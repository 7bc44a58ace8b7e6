package bookings

// StatusCount is one row of a per-status aggregation.
type StatusCount struct {
	Status Status  `bson:"_id"`
	Count  int     `bson:"count"`
	Amount float64 `bson:"total_amount"`
}

// Overview summarises a collection of bookings by status. Revenue only
// counts bookings that were confirmed or completed.
type Overview struct {
	Total        int     `json:"total"`
	Confirmed    int     `json:"confirmed"`
	Pending      int     `json:"pending"`
	Cancelled    int     `json:"cancelled"`
	Completed    int     `json:"completed"`
	Rejected     int     `json:"rejected"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// FoldOverview reduces aggregation rows to an Overview. An empty input
// yields the zero Overview, not an error.
func FoldOverview(rows []StatusCount) Overview {
	var o Overview
	for _, row := range rows {
		o.Total += row.Count
		switch row.Status {
		case StatusConfirmed:
			o.Confirmed = row.Count
		case StatusPending:
			o.Pending = row.Count
		case StatusCancelled:
			o.Cancelled = row.Count
		case StatusCompleted:
			o.Completed = row.Count
		case StatusRejected:
			o.Rejected = row.Count
		}
		if row.Status == StatusConfirmed || row.Status == StatusCompleted {
			o.TotalRevenue += row.Amount
		}
	}
	return o
}

// PeriodKey identifies one calendar bucket of a revenue series. Day is
// zero for monthly granularity.
type PeriodKey struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
	Day   int `bson:"day,omitempty" json:"day,omitempty"`
}

// PeriodRevenue is one bucket of a time-series revenue report.
type PeriodRevenue struct {
	Period   PeriodKey `bson:"_id" json:"period"`
	Revenue  float64   `bson:"revenue" json:"revenue"`
	Bookings int       `bson:"bookings" json:"bookings"`
}

// SumRevenue totals a revenue series.
func SumRevenue(series []PeriodRevenue) (revenue float64, bookings int) {
	for _, p := range series {
		revenue += p.Revenue
		bookings += p.Bookings
	}
	return revenue, bookings
}
