package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hetio-cli/backend/internal/docstore"
	"hetio-cli/backend/internal/ingest"
	"hetio-cli/backend/internal/query"
	apperrors "hetio-cli/backend/pkg/errors"
)

// Styles define the console theme
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D9FF")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 2)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666680")).
			Italic(true).
			PaddingLeft(2)

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFE66D"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d3d5c")).
			Padding(0, 1)
)

func section(title string, items []string, empty string) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", title, len(items))) + "\n")
	if len(items) == 0 {
		sb.WriteString(mutedStyle.Render(empty) + "\n")
		return sb.String()
	}
	for _, item := range items {
		sb.WriteString(itemStyle.Render("- "+item) + "\n")
	}
	return sb.String()
}

// RenderSummary formats a disease summary
func RenderSummary(s *query.DiseaseSummary) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(s.DiseaseName) + " " + mutedStyle.Render(s.DiseaseID) + "\n\n")
	sb.WriteString(section("Drugs", s.Drugs, "none"))
	sb.WriteString(section("Genes", s.Genes, "none"))
	sb.WriteString(section("Anatomies", s.Anatomies, "none"))
	return sb.String()
}

// RenderCandidates formats inferred treatments for a disease
func RenderCandidates(diseaseID string, candidates []query.Candidate) string {
	items := make([]string, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, fmt.Sprintf("%s (%s)", c.Name, c.ID))
	}
	return titleStyle.Render("Candidate treatments") + " " + mutedStyle.Render(diseaseID) + "\n\n" +
		section("Compounds", items, "no candidates found")
}

// RenderLoadReport formats the outcome of a load
func RenderLoadReport(r *ingest.LoadReport) string {
	row := func(label string, s ingest.Summary) string {
		return fmt.Sprintf("%-6s inserted %d, skipped %d, failed %d (of %d)", label, s.Inserted, s.Skipped, s.Failed, s.Total)
	}
	body := strings.Join([]string{
		headingStyle.Render("Load complete") + " " + mutedStyle.Render(r.RunID),
		row("nodes", r.Nodes),
		row("edges", r.Edges),
	}, "\n")
	out := boxStyle.Render(body) + "\n"
	for _, w := range r.WarningMessages() {
		out += warningStyle.Render("warning: ") + w + "\n"
	}
	return out
}

// RenderStats formats catalog statistics
func RenderStats(st *docstore.Stats) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Catalog") + " " + mutedStyle.Render(fmt.Sprintf("%d nodes, %d edges", st.Nodes, st.Edges)) + "\n\n")

	counts := func(cs []docstore.Count) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, fmt.Sprintf("%-20s %d", c.Label, c.Count))
		}
		return out
	}
	sb.WriteString(section("Nodes by kind", counts(st.NodesByKind), "empty"))
	sb.WriteString(section("Edges by metaedge", counts(st.EdgesByMetaedge), "empty"))

	compounds := make([]string, 0, len(st.TopCompoundsByGene))
	for _, c := range st.TopCompoundsByGene {
		compounds = append(compounds, fmt.Sprintf("%s: %d genes, %d diseases", c.Name, c.Genes, c.Diseases))
	}
	sb.WriteString(section("Top compounds by regulated genes", compounds, "none"))

	buckets := make([]string, 0, len(st.DiseasesByDrugs))
	for _, b := range st.DiseasesByDrugs {
		buckets = append(buckets, fmt.Sprintf("%d diseases with %d drugs", b.Diseases, b.Drugs))
	}
	sb.WriteString(section("Diseases by number of drugs", buckets, "none"))
	return sb.String()
}

// RenderError formats a failure. Warnings (not found, empty table) are
// shown as such rather than as errors.
func RenderError(err error) string {
	if apperrors.IsWarning(err) {
		return warningStyle.Render("not found: ") + err.Error() + "\n"
	}
	return errorStyle.Render("error: ") + err.Error() + "\n"
}
