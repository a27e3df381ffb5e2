package services

import (
	"fmt"
	"sort"
	"strings"

	"expa-scraper/models"
	"expa-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the post-run report over the aggregated funnel table.
func (s *InsightService) Generate(records []models.AggregatedRecord) *models.FunnelReport {
	report := &models.FunnelReport{
		TotalsByRegion:  make(map[string]models.StageCounts),
		ProgramApproved: make(map[models.Program]int64),
		ProgramRealized: make(map[models.Program]int64),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalRecords = len(records)

	lcs := make(map[string]struct{})
	var realized []models.AggregatedRecord

	for _, r := range records {
		lcs[r.CountryName+"|"+r.LCName] = struct{}{}
		report.Totals.Add(r.Counts)

		regionTotals := report.TotalsByRegion[r.CountryRegion]
		regionTotals.Add(r.Counts)
		report.TotalsByRegion[r.CountryRegion] = regionTotals

		report.ProgramApproved[r.Program] += r.Counts.Approved
		report.ProgramRealized[r.Program] += r.Counts.Realized

		if r.Counts.Realized > 0 {
			realized = append(realized, r)
		}
	}
	report.TotalLCs = len(lcs)

	// Top 5 LC×program rows by realizations
	sort.SliceStable(realized, func(i, j int) bool {
		return realized[i].Counts.Realized > realized[j].Counts.Realized
	})
	if len(realized) > 5 {
		realized = realized[:5]
	}
	report.TopRealizedLCs = realized

	return report
}

// Print renders the report to stdout.
func (s *InsightService) Print(r *models.FunnelReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 LC FUNNEL INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Local committees       : \033[1m%d\033[0m\n", r.TotalLCs)
	fmt.Printf("  LC × program records   : \033[1m%d\033[0m\n", r.TotalRecords)
	fmt.Println()

	// Global funnel
	fmt.Printf("\033[1;33m  Global Funnel\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Signups    : %d\n", r.Totals.Signups)
	fmt.Printf("  Applicants : %d\n", r.Totals.Applicants)
	fmt.Printf("  Accepted   : %d\n", r.Totals.Accepted)
	fmt.Printf("  Approved   : %d\n", r.Totals.Approved)
	fmt.Printf("  Realized   : %d\n", r.Totals.Realized)
	fmt.Printf("  Finished   : %d\n", r.Totals.Finished)
	fmt.Printf("  Completed  : %d\n", r.Totals.Completed)
	fmt.Println()

	// Top realizing LCs
	fmt.Printf("\033[1;33m  Top 5 LCs by Realizations\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopRealizedLCs) == 0 {
		fmt.Printf("  No realizations recorded\n")
	} else {
		for i, rec := range r.TopRealizedLCs {
			label := truncate(rec.LCName+" ("+rec.CountryName+", "+string(rec.Program)+")", 40)
			fmt.Printf("  \033[1m%d.\033[0m %-42s \033[1;32m%d\033[0m\n",
				i+1, label, rec.Counts.Realized)
		}
	}
	fmt.Println()

	// Approvals by region
	fmt.Printf("\033[1;33m  Approvals by Region\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TotalsByRegion) == 0 {
		fmt.Printf("  No regional data\n")
	} else {
		type regionCount struct {
			region   string
			approved int64
		}
		var regions []regionCount
		for region, totals := range r.TotalsByRegion {
			if region != "" {
				regions = append(regions, regionCount{region, totals.Approved})
			}
		}
		sort.Slice(regions, func(i, j int) bool {
			return regions[i].approved > regions[j].approved
		})
		for _, rc := range regions {
			fmt.Printf("  %-30s %d\n", truncate(rc.region, 28), rc.approved)
		}
	}
	fmt.Println()

	// Programs ranked by approval-to-realization conversion
	fmt.Printf("\033[1;33m  Realization Rate by Program\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, p := range models.Programs {
		rate := pct(r.ProgramRealized[p], r.ProgramApproved[p])
		fmt.Printf("  %-6s %6.1f%%  (%d / %d approved)\n",
			p, rate, r.ProgramRealized[p], r.ProgramApproved[p])
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
