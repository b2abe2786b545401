package ui

import (
	"fmt"
	"strings"
	"time"

	"nutrition_tracker/internal/core"
	"nutrition_tracker/pkg"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

const (
	chartWidth  = 56
	chartHeight = 12
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func grams(v float64) string {
	return fmt.Sprintf("%.1f g", v)
}

// Status renders the profile summary, today's totals and the budget line
func Status(p pkg.UserProfile, totals pkg.DailyTotals, status core.BudgetStatus) string {
	goals := make([]string, len(p.Goals))
	for i, g := range p.Goals {
		goals[i] = string(g)
	}
	goalText := strings.Join(goals, ", ")
	if goalText == "" {
		goalText = mutedStyle.Render("none")
	}

	budgetLine := successStyle.Render(status.String())
	if status.Reached {
		budgetLine = warningStyle.Render(status.String())
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Today "+totals.Day),
		"",
		row("User", p.UserID),
		row("Diabetes type", string(p.Category())),
		row("Goals", goalText),
		row("Carb budget", fmt.Sprintf("%.0f g/day", p.CarbBudget)),
		"",
		row("Meals logged", fmt.Sprintf("%d", totals.EntryCount)),
		row("Carbs", grams(totals.Nutrients.CarbsG)),
		row("Calories", fmt.Sprintf("%.0f kcal", totals.Nutrients.CaloriesKcal)),
		row("Protein", grams(totals.Nutrients.ProteinG)),
		row("Fat", grams(totals.Nutrients.FatG)),
		"",
		budgetLine,
	)
	return panelStyle.Render(body)
}

// Estimate renders one logged or previewed estimate
func Estimate(e pkg.MacroEstimate) string {
	n := e.Nutrients
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(e.ItemName),
		row("Carbs", grams(n.CarbsG)),
		row("Calories", fmt.Sprintf("%.0f kcal", n.CaloriesKcal)),
		row("Protein", grams(n.ProteinG)),
		row("Fat", grams(n.FatG)),
	))
}

// History renders meals as a table in the order given
func History(title string, meals []pkg.MealLogEntry) string {
	if len(meals) == 0 {
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(title), mutedStyle.Render("No meals logged"),
		))
	}

	header := headerStyle.Render(fmt.Sprintf("%-16s  %-24s %8s %8s %8s %8s", "When", "Item", "Carbs", "Kcal", "Protein", "Fat"))
	lines := []string{titleStyle.Render(title), header}
	for _, m := range meals {
		n := m.Nutrients
		lines = append(lines, fmt.Sprintf("%-16s  %-24s %8.1f %8.0f %8.1f %8.1f",
			displayTime(m.Timestamp), truncate(m.ItemName, 24), n.CarbsG, n.CaloriesKcal, n.ProteinG, n.FatG))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Glucose renders blood sugar readings with their average
func Glucose(readings []pkg.BloodSugarEntry, avg float64, ok bool) string {
	lines := []string{titleStyle.Render("Blood sugar")}
	if !ok {
		lines = append(lines, mutedStyle.Render("No readings"))
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	lines = append(lines, row("Average", fmt.Sprintf("%.1f mg/dL", avg)), "")
	for _, r := range readings {
		line := fmt.Sprintf("%-16s  %6.0f mg/dL  %s", displayTime(r.Timestamp), r.GlucoseLevel, r.MealType)
		if r.Notes != "" {
			line += mutedStyle.Render("  " + r.Notes)
		}
		lines = append(lines, line)
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Week renders daily carbs as a bar chart; days over budget are drawn in red
func Week(series []pkg.DailyTotals, budget float64) string {
	chart := barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(series))
	for _, d := range series {
		style := carbsBarStyle
		if budget > 0 && d.Nutrients.CarbsG > budget {
			style = overBarStyle
		}
		bars = append(bars, barchart.BarData{
			Label: dayLabel(d.Day),
			Values: []barchart.BarValue{{
				Name:  "carbs",
				Value: d.Nutrients.CarbsG,
				Style: style,
			}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()

	lines := []string{titleStyle.Render("Carbs, last 7 days"), chart.View(), ""}
	for _, d := range series {
		lines = append(lines, fmt.Sprintf("%s  %7.1f g  %d meals", dayLabel(d.Day), d.Nutrients.CarbsG, d.EntryCount))
	}
	if budget > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Budget %.0f g/day", budget)))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func dayLabel(day string) string {
	t, err := time.Parse(pkg.DayLayout, day)
	if err != nil {
		return day
	}
	return t.Format("Mon 02")
}

func displayTime(ts string) string {
	t, err := time.Parse(pkg.TimestampLayout, ts)
	if err != nil {
		return truncate(ts, 16)
	}
	return t.Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
