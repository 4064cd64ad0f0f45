package v1

import (
	"time"

	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/consistency"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	po "ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/domain/till"
)

// Storage is the persistence the API runs on. The PostgreSQL store and the
// in-memory store both implement it.
type Storage interface {
	tx.Manager
	numerator.Generator
	audit.Recorder

	Items() item.Repository
	Counterparties() counterparty.Repository
	Sales() sale.Repository
	Purchases() purchase.Repository
	PurchaseOrders() po.Repository
	Payments() payment.Repository
	Returns() returns.Repository
	Till() till.Repository
	Reports() reports.Repository
	Consistency() consistency.Repository
}

// Services groups the domain services behind the handlers.
type Services struct {
	Items          *item.Service
	Counterparties *counterparty.Service
	Sales          *sale.Service
	Purchases      *purchase.Service
	PurchaseOrders *po.Service
	Payments       *payment.Service
	Returns        *returns.Service
	Till           *till.Service
	Reports        *reports.Service
	Consistency    *consistency.Checker
}

// NewServices builds every domain service on st. Reports bucket days in loc.
func NewServices(st Storage, loc *time.Location, windowDays int) Services {
	purchases := purchase.NewService(purchase.Deps{
		TxManager: st,
		Purchases: st.Purchases(),
		Items:     st.Items(),
		Suppliers: st.Counterparties(),
		Returns:   st.Returns(),
		Numerator: st,
		Audit:     st,
	})

	return Services{
		Items:          item.NewService(st.Items(), st),
		Counterparties: counterparty.NewService(st.Counterparties()),
		Sales: sale.NewService(sale.Deps{
			TxManager: st,
			Sales:     st.Sales(),
			Items:     st.Items(),
			Customers: st.Counterparties(),
			Returns:   st.Returns(),
			Numerator: st,
			Audit:     st,
		}),
		Purchases: purchases,
		PurchaseOrders: po.NewService(po.Deps{
			TxManager: st,
			Orders:    st.PurchaseOrders(),
			Items:     st.Items(),
			Suppliers: st.Counterparties(),
			Purchases: purchases,
			Numerator: st,
			Audit:     st,
		}),
		Payments: payment.NewService(st, st.Payments(), st.Counterparties()),
		Returns: returns.NewService(returns.Deps{
			TxManager:      st,
			Returns:        st.Returns(),
			Sales:          st.Sales(),
			Purchases:      st.Purchases(),
			Items:          st.Items(),
			Counterparties: st.Counterparties(),
		}),
		Till:        till.NewService(st, st.Till()),
		Reports:     reports.NewService(st.Reports(), loc, windowDays),
		Consistency: consistency.NewChecker(st.Counterparties(), st.Consistency()),
	}
}
