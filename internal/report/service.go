package report

import (
	"sort"
	"time"

	"billing-backend/internal/models"

	"gorm.io/gorm"
)

// Service computes the dashboard from the persisted invoice, payment and item
// sets. Nothing here reads cached counters, a write-path bug cannot poison
// the report.
type Service struct {
	db                *gorm.DB
	lowStockThreshold float64
	topN              int
}

func NewService(db *gorm.DB, lowStockThreshold float64) *Service {
	return &Service{db: db, lowStockThreshold: lowStockThreshold, topN: 5}
}

type RankedCustomer struct {
	PartyID    uint    `json:"party_id"`
	Name       string  `json:"name"`
	TotalSpent float64 `json:"total_spent"`
}

type RankedProduct struct {
	ItemID    uint    `json:"item_id"`
	Name      string  `json:"name"`
	TotalSold float64 `json:"total_sold"`
}

type YearSummary struct {
	Year         int              `json:"year"`
	TotalSales   float64          `json:"total_sales"`
	TopCustomers []RankedCustomer `json:"top_customers"`
	TopProducts  []RankedProduct  `json:"top_products"`
}

type LowStockItem struct {
	ItemID uint    `json:"item_id"`
	Name   string  `json:"name"`
	Stock  float64 `json:"stock"`
}

type DashboardReport struct {
	DailySales    float64          `json:"daily_sales"`
	MonthlySales  float64          `json:"monthly_sales"`
	YearlySales   float64          `json:"yearly_sales"`
	YearlySummary []YearSummary    `json:"yearly_summary"`
	TopCustomers  []RankedCustomer `json:"top_customers"`
	TopProducts   []RankedProduct  `json:"top_products"`
	LowStock      []LowStockItem   `json:"low_stock"`
}

// ComputeDashboard aggregates sales for the calendar day, month and year of
// asOf, plus the per-year summary over the whole invoice history.
func (s *Service) ComputeDashboard(asOf time.Time) (*DashboardReport, error) {
	loc := asOf.Location()
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, loc)
	yearStart := time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, loc)

	report := &DashboardReport{}

	var err error
	if report.DailySales, err = s.salesBetween(dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if report.MonthlySales, err = s.salesBetween(monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	if report.YearlySales, err = s.salesBetween(yearStart, yearStart.AddDate(1, 0, 0)); err != nil {
		return nil, err
	}

	if report.YearlySummary, err = s.yearlySummary(); err != nil {
		return nil, err
	}

	// Top-level rankings cover asOf's calendar year, the period the dashboard
	// cards are about. Always non-nil so the JSON carries [] rather than null.
	report.TopCustomers = []RankedCustomer{}
	report.TopProducts = []RankedProduct{}
	for _, entry := range report.YearlySummary {
		if entry.Year == asOf.Year() {
			report.TopCustomers = entry.TopCustomers
			report.TopProducts = entry.TopProducts
		}
	}

	if report.LowStock, err = s.lowStock(); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *Service) salesBetween(from, to time.Time) (float64, error) {
	var total float64
	err := s.db.Model(&models.Invoice{}).
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&total).Error
	return models.Round2(total), err
}

// yearlySummary builds one entry per distinct year in the invoice history.
// Aggregation happens in Go over plain row scans so the same code runs on
// Postgres and the sqlite test driver.
func (s *Service) yearlySummary() ([]YearSummary, error) {
	type invoiceRow struct {
		ID          uint
		PartyID     uint
		InvoiceDate time.Time
		NetAmount   float64
	}
	var invoices []invoiceRow
	err := s.db.Model(&models.Invoice{}).
		Select("id", "party_id", "invoice_date", "net_amount").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	type paymentRow struct {
		PartyID         uint
		TransactionDate time.Time
		Amount          float64
	}
	var payments []paymentRow
	err = s.db.Model(&models.Payment{}).
		Select("party_id", "transaction_date", "amount").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	type lineRow struct {
		ItemID    uint
		Quantity  float64
		InvoiceID uint
	}
	var lines []lineRow
	err = s.db.Model(&models.InvoiceItem{}).
		Select("item_id", "quantity", "invoice_id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	invoiceYear := make(map[uint]int, len(invoices))
	totalsByYear := make(map[int]float64)
	for _, inv := range invoices {
		y := inv.InvoiceDate.Year()
		invoiceYear[inv.ID] = y
		totalsByYear[y] = totalsByYear[y] + inv.NetAmount
	}

	// paid amounts per party per payment year
	spentByYearParty := make(map[int]map[uint]float64)
	for _, p := range payments {
		y := p.TransactionDate.Year()
		if spentByYearParty[y] == nil {
			spentByYearParty[y] = make(map[uint]float64)
		}
		spentByYearParty[y][p.PartyID] += p.Amount
	}
	// A year can see payments without invoices (settling last year's bills);
	// it still gets a summary entry so the customer ranking is not lost.
	for y := range spentByYearParty {
		if _, ok := totalsByYear[y]; !ok {
			totalsByYear[y] = 0
		}
	}

	// quantities per item per invoice year
	soldByYearItem := make(map[int]map[uint]float64)
	for _, l := range lines {
		y, ok := invoiceYear[l.InvoiceID]
		if !ok {
			continue
		}
		if soldByYearItem[y] == nil {
			soldByYearItem[y] = make(map[uint]float64)
		}
		soldByYearItem[y][l.ItemID] += l.Quantity
	}

	partyNames, err := s.partyNames()
	if err != nil {
		return nil, err
	}
	itemNames, err := s.itemNames()
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(totalsByYear))
	for y := range totalsByYear {
		years = append(years, y)
	}
	sort.Ints(years)

	summary := make([]YearSummary, 0, len(years))
	for _, y := range years {
		entry := YearSummary{
			Year:         y,
			TotalSales:   models.Round2(totalsByYear[y]),
			TopCustomers: topCustomers(spentByYearParty[y], partyNames, s.topN),
			TopProducts:  topProducts(soldByYearItem[y], itemNames, s.topN),
		}
		summary = append(summary, entry)
	}
	return summary, nil
}

// topCustomers ranks by amount descending, ties broken by party id ascending
// so the ordering is deterministic.
func topCustomers(spent map[uint]float64, names map[uint]string, n int) []RankedCustomer {
	ranked := make([]RankedCustomer, 0, len(spent))
	for partyID, total := range spent {
		ranked = append(ranked, RankedCustomer{
			PartyID:    partyID,
			Name:       names[partyID],
			TotalSpent: models.Round2(total),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSpent != ranked[j].TotalSpent {
			return ranked[i].TotalSpent > ranked[j].TotalSpent
		}
		return ranked[i].PartyID < ranked[j].PartyID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func topProducts(sold map[uint]float64, names map[uint]string, n int) []RankedProduct {
	ranked := make([]RankedProduct, 0, len(sold))
	for itemID, qty := range sold {
		ranked = append(ranked, RankedProduct{
			ItemID:    itemID,
			Name:      names[itemID],
			TotalSold: qty,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSold != ranked[j].TotalSold {
			return ranked[i].TotalSold > ranked[j].TotalSold
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func (s *Service) partyNames() (map[uint]string, error) {
	var parties []models.Party
	if err := s.db.Select("id", "name").Find(&parties).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(parties))
	for _, p := range parties {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (s *Service) itemNames() (map[uint]string, error) {
	var items []models.Item
	if err := s.db.Select("id", "name").Find(&items).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}
	return names, nil
}

func (s *Service) lowStock() ([]LowStockItem, error) {
	var items []models.Item
	err := s.db.
		Where("stock_quantity < ?", s.lowStockThreshold).
		Order("stock_quantity ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]LowStockItem, 0, len(items))
	for _, it := range items {
		alerts = append(alerts, LowStockItem{ItemID: it.ID, Name: it.Name, Stock: it.StockQuantity})
	}
	return alerts, nil
}
