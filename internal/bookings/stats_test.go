package bookings

import "testing"

func TestFoldOverview(t *testing.T) {
	rows := []StatusCount{
		{Status: StatusConfirmed, Count: 4, Amount: 600},
		{Status: StatusPending, Count: 2, Amount: 90},
		{Status: StatusCancelled, Count: 1, Amount: 45},
		{Status: StatusCompleted, Count: 3, Amount: 135},
		{Status: StatusRejected, Count: 1, Amount: 80},
	}

	o := FoldOverview(rows)
	if o.Total != 11 {
		t.Errorf("Total = %d, want 11", o.Total)
	}
	if o.Confirmed != 4 || o.Pending != 2 || o.Cancelled != 1 || o.Completed != 3 || o.Rejected != 1 {
		t.Errorf("per-status counts wrong: %+v", o)
	}
	// Revenue counts confirmed and completed only.
	if o.TotalRevenue != 735 {
		t.Errorf("TotalRevenue = %v, want 735", o.TotalRevenue)
	}
}

func TestFoldOverviewEmpty(t *testing.T) {
	o := FoldOverview(nil)
	if o != (Overview{}) {
		t.Errorf("empty input should fold to the zero overview, got %+v", o)
	}
}

func TestSumRevenue(t *testing.T) {
	series := []PeriodRevenue{
		{Period: PeriodKey{Year: 2026, Month: 1}, Revenue: 500, Bookings: 5},
		{Period: PeriodKey{Year: 2026, Month: 2}, Revenue: 250, Bookings: 2},
	}
	revenue, count := SumRevenue(series)
	if revenue != 750 || count != 7 {
		t.Errorf("SumRevenue() = (%v, %d), want (750, 7)", revenue, count)
	}

	revenue, count = SumRevenue(nil)
	if revenue != 0 || count != 0 {
		t.Errorf("SumRevenue(nil) = (%v, %d), want zeros", revenue, count)
	}
}
