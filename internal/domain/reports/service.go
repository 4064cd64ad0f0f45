package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/ledger"
)

// PermissionViewProfit gates the profit report.
const PermissionViewProfit = "report:profit:read"

// Service provides report generation operations.
type Service struct {
	repo       Repository
	loc        *time.Location
	windowDays int
}

// NewService creates a new reports service. Days are bucketed in loc.
func NewService(repo Repository, loc *time.Location, windowDays int) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Service{repo: repo, loc: loc, windowDays: windowDays}
}

// DailyRevenue buckets sale totals by day over the trailing window ending on
// now's day, zero-filling days without sales. days <= 0 uses the default window.
func (s *Service) DailyRevenue(ctx context.Context, tenantID id.ID, now time.Time, days int) ([]DailyRevenue, error) {
	if days <= 0 {
		days = s.windowDays
	}
	if days > 366 {
		return nil, apperror.NewValidation("window must not exceed 366 days").WithDetail("field", "days")
	}

	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	from := today.AddDate(0, 0, -(days - 1))
	to := now

	rows, err := s.repo.SaleRows(ctx, tenantID, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("sale rows: %w", err)
	}

	out := make([]DailyRevenue, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format(time.DateOnly)
		out[i] = DailyRevenue{Date: key, Revenue: decimal.Zero}
		index[key] = i
	}
	for _, r := range rows {
		i, ok := index[r.CreatedAt.In(s.loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(r.TotalAmount)
		out[i].Count++
	}
	return out, nil
}

// PaymentMethodTotals sums sale paid amounts and customer payments per
// method. Every method is present, in display order.
func (s *Service) PaymentMethodTotals(ctx context.Context, tenantID id.ID, rng DateRange) ([]MethodTotal, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.repo.SaleRows(ctx, tenantID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("sale rows: %w", err)
	}
	payments, err := s.repo.CustomerPaymentRows(ctx, tenantID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("payment rows: %w", err)
	}

	totals := make(map[ledger.PaymentMethod]*MethodTotal, len(ledger.PaymentMethods))
	out := make([]MethodTotal, 0, len(ledger.PaymentMethods))
	for _, m := range ledger.PaymentMethods {
		totals[m] = &MethodTotal{Method: m, Sales: decimal.Zero, Payments: decimal.Zero}
	}
	for _, r := range sales {
		if t, ok := totals[r.PaymentMethod.OrDefault()]; ok {
			t.Sales = t.Sales.Add(r.PaidAmount)
		}
	}
	for _, r := range payments {
		if t, ok := totals[r.Method.OrDefault()]; ok {
			t.Payments = t.Payments.Add(r.Amount)
		}
	}
	for _, m := range ledger.PaymentMethods {
		t := totals[m]
		t.Total = t.Sales.Add(t.Payments)
		out = append(out, *t)
	}
	return out, nil
}

// TopItems ranks items by revenue, descending. Ties keep the order in which
// the items were first sold.
func (s *Service) TopItems(ctx context.Context, tenantID id.ID, rng DateRange, n int) ([]TopItem, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 10
	}
	rows, err := s.repo.SaleLineRows(ctx, tenantID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("sale line rows: %w", err)
	}

	var items []TopItem
	index := map[id.ID]int{}
	for _, r := range rows {
		i, ok := index[r.ItemID]
		if !ok {
			i = len(items)
			index[r.ItemID] = i
			items = append(items, TopItem{ItemID: r.ItemID, Name: r.ItemName, Quantity: decimal.Zero, Revenue: decimal.Zero})
		}
		items[i].Quantity = items[i].Quantity.Add(r.Quantity)
		items[i].Revenue = items[i].Revenue.Add(r.Amount)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Revenue.GreaterThan(items[j].Revenue)
	})
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// Debtors lists customers that owe money, largest balance first.
func (s *Service) Debtors(ctx context.Context, tenantID id.ID) (*BalanceList, error) {
	return s.balances(ctx, tenantID, counterparty.KindCustomer)
}

// Creditors lists suppliers we owe, largest balance first.
func (s *Service) Creditors(ctx context.Context, tenantID id.ID) (*BalanceList, error) {
	return s.balances(ctx, tenantID, counterparty.KindSupplier)
}

func (s *Service) balances(ctx context.Context, tenantID id.ID, kind counterparty.Kind) (*BalanceList, error) {
	rows, err := s.repo.PositiveBalances(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("%s balances: %w", kind, err)
	}
	out := &BalanceList{Rows: make([]BalanceRow, 0, len(rows)), Total: decimal.Zero}
	for _, r := range rows {
		if !r.Balance.IsPositive() {
			continue
		}
		out.Rows = append(out.Rows, r)
		out.Total = out.Total.Add(r.Balance)
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Balance.GreaterThan(out.Rows[j].Balance)
	})
	return out, nil
}

// Profit computes revenue − Σ(item cost price × quantity sold). The caller's
// canViewProfit flag comes from the permission checker.
func (s *Service) Profit(ctx context.Context, tenantID id.ID, rng DateRange, canViewProfit bool) (*Profit, error) {
	if !canViewProfit {
		return nil, apperror.NewForbidden("profit report requires " + PermissionViewProfit)
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.repo.SaleRows(ctx, tenantID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("sale rows: %w", err)
	}
	lines, err := s.repo.SaleLineRows(ctx, tenantID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("sale line rows: %w", err)
	}

	p := &Profit{Revenue: decimal.Zero, Cost: decimal.Zero, SaleCount: len(sales)}
	for _, r := range sales {
		p.Revenue = p.Revenue.Add(r.TotalAmount)
	}
	for _, l := range lines {
		p.Cost = p.Cost.Add(l.CostPrice.Mul(l.Quantity))
	}
	p.Cost = types.RoundMoney(p.Cost)
	p.GrossProfit = p.Revenue.Sub(p.Cost)
	p.Margin = decimal.Zero
	if !p.Revenue.IsZero() {
		p.Margin = p.GrossProfit.Div(p.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return p, nil
}
