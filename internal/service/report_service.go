package service

import (
	"sort"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/store"
)

// ReportService derives the aggregated payroll views from the store.
// Every grouping works over the same filtered record set the consolidated
// view shows, so the dashboard numbers always match the table.
type ReportService struct {
	store *store.Store
}

// NewReportService constructs the service.
func NewReportService(st *store.Store) *ReportService {
	return &ReportService{store: st}
}

// ByBusinessLine groups the filtered records by rubro.
func (s *ReportService) ByBusinessLine(filter models.AttendanceFilter) []models.GroupSummary {
	return s.groupBy(filter, func(rec *models.AttendanceRecord) string {
		return fallbackName(rec.BusinessLine)
	})
}

// ByBank groups the filtered records by paying bank.
func (s *ReportService) ByBank(filter models.AttendanceFilter) []models.GroupSummary {
	return s.groupBy(filter, func(rec *models.AttendanceRecord) string {
		return fallbackName(rec.Bank)
	})
}

// BySite groups the filtered records by sede.
func (s *ReportService) BySite(filter models.AttendanceFilter) []models.GroupSummary {
	return s.groupBy(filter, func(rec *models.AttendanceRecord) string {
		return fallbackName(rec.Site)
	})
}

// BySource totals each loaded report for the dashboard selector.
func (s *ReportService) BySource(filter models.AttendanceFilter) []models.ReportTotal {
	groups := s.groupBy(filter, func(rec *models.AttendanceRecord) string {
		return rec.ReportName
	})
	totals := make([]models.ReportTotal, 0, len(groups))
	for _, g := range groups {
		totals = append(totals, models.ReportTotal{
			Name:          g.Name,
			EmployeeCount: g.EmployeeCount,
			TotalFinal:    g.TotalFinal,
		})
	}
	return totals
}

// SiteBankShares computes, per site, each bank's share of the final
// salary total. Percentages are relative to the site, not the company.
func (s *ReportService) SiteBankShares(filter models.AttendanceFilter) []models.SiteBankSummary {
	records, _ := s.store.List(noPagination(filter))

	type bankTotals map[string]float64
	sites := make(map[string]bankTotals)
	siteTotals := make(map[string]float64)
	for i := range records {
		rec := &records[i]
		site := fallbackName(rec.Site)
		bank := fallbackName(rec.Bank)
		if sites[site] == nil {
			sites[site] = make(bankTotals)
		}
		sites[site][bank] += rec.FinalSalary
		siteTotals[site] += rec.FinalSalary
	}

	out := make([]models.SiteBankSummary, 0, len(sites))
	for site, banks := range sites {
		summary := models.SiteBankSummary{Site: site, Banks: make([]models.BankShare, 0, len(banks))}
		for bank, total := range banks {
			share := models.BankShare{Bank: bank, Total: total}
			if siteTotals[site] > 0 {
				share.Percentage = total / siteTotals[site] * 100
			}
			summary.Banks = append(summary.Banks, share)
		}
		sort.Slice(summary.Banks, func(i, j int) bool {
			if summary.Banks[i].Total != summary.Banks[j].Total {
				return summary.Banks[i].Total > summary.Banks[j].Total
			}
			return summary.Banks[i].Bank < summary.Banks[j].Bank
		})
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return siteTotals[out[i].Site] > siteTotals[out[j].Site]
	})
	return out
}

func (s *ReportService) groupBy(filter models.AttendanceFilter, keyFn func(*models.AttendanceRecord) string) []models.GroupSummary {
	records, _ := s.store.List(noPagination(filter))

	groups := make(map[string]*models.GroupSummary)
	order := make([]string, 0)
	for i := range records {
		rec := &records[i]
		key := keyFn(rec)
		g, ok := groups[key]
		if !ok {
			g = &models.GroupSummary{Name: key}
			groups[key] = g
			order = append(order, key)
		}
		g.EmployeeCount++
		g.TotalSalaries += rec.MonthlySalary
		g.TotalDiscounts += rec.Discounts
		g.TotalBonuses += rec.Bonus
		g.TotalFinal += rec.FinalSalary
	}

	out := make([]models.GroupSummary, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFinal != out[j].TotalFinal {
			return out[i].TotalFinal > out[j].TotalFinal
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func noPagination(filter models.AttendanceFilter) models.AttendanceFilter {
	filter.Page = 0
	filter.PageSize = 0
	return filter
}

func fallbackName(name string) string {
	if name == "" {
		return "No especificado"
	}
	return name
}
