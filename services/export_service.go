// services/export_service.go
package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
)

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

// ExportJSON renders the saved analysis verbatim
func (s *exportService) ExportJSON(analysis *models.SavedAnalysis) ([]byte, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return data, nil
}

// ExportMarkdown renders a human-readable summary: headline numbers, then the
// quick wins and the urgency buckets, each fix with its full remediation
// detail
func (s *exportService) ExportMarkdown(analysis *models.SavedAnalysis) string {
	var b strings.Builder
	report := analysis.Report
	plan := analysis.ActionPlan

	fmt.Fprintf(&b, "# Competitive Analysis: %s\n\n", report.BrandName)
	fmt.Fprintf(&b, "Generated %s\n\n", analysis.SavedAt.Format("2006-01-02"))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Queries analyzed: %d (%d executions)\n", report.TotalQueries, report.TotalExecutions)
	fmt.Fprintf(&b, "- Win rate: %.1f%%\n", report.WinRate)
	fmt.Fprintf(&b, "- Wins: %d, Losses: %d, Partial: %d, Unclear: %d\n", report.Wins, report.Losses, report.Partial, report.Unclear)
	if plan.TotalPotentialWins > 0 {
		fmt.Fprintf(&b, "- Action plan: %d potential wins, %.1f hours, est. impact %d%%\n",
			plan.TotalPotentialWins, plan.TotalHours, plan.EstimatedImpactPercent)
	}
	b.WriteString("\n")

	if len(report.ByCategory) > 0 {
		fmt.Fprintf(&b, "## Results by Category\n\n")
		fmt.Fprintf(&b, "| Category | Total | Wins | Losses | Partial | Win Rate |\n")
		fmt.Fprintf(&b, "|----------|-------|------|--------|---------|----------|\n")
		for _, category := range models.AllCategories {
			stats, ok := report.ByCategory[category]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %.1f%% |\n",
				category, stats.Total, stats.Wins, stats.Losses, stats.Partial, stats.WinRate)
		}
		b.WriteString("\n")
	}

	writeFixSection(&b, "Quick Wins", plan.QuickWins)
	writeFixSection(&b, "Critical Fixes", plan.Critical)
	writeFixSection(&b, "High Priority Fixes", plan.High)
	writeFixSection(&b, "Medium Priority Fixes", plan.Medium)

	return b.String()
}

func writeFixSection(b *strings.Builder, title string, fixes []models.Fix) {
	if len(fixes) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, fix := range fixes {
		fmt.Fprintf(b, "### %s\n\n", fix.Title)
		fmt.Fprintf(b, "%s\n\n", fix.Description)
		fmt.Fprintf(b, "- Effort: %s (%.1f hours)\n", fix.Effort, fix.EstimatedHours)
		fmt.Fprintf(b, "- Potential wins: %d\n", fix.PotentialWins)
		fmt.Fprintf(b, "- Skill required: %s\n\n", fix.SkillRequired)
		for i, step := range fix.Steps {
			fmt.Fprintf(b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}
}
