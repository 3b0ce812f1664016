package insight

import (
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/report"
)

const systemPrompt = "You are a retail analyst for a small shop. Answer with one short paragraph of plain text."

// BuildPrompt renders the dashboard as a summary request. Equal inputs give
// byte-identical prompts, the narrator relies on that to skip repeats.
func BuildPrompt(d *report.Dashboard, categories []model.Category, f *money.Formatter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summarise store performance for %s.\n", describeWindow(d.Window))
	fmt.Fprintf(&b, "Units sold: %d\n", d.UnitsSold)
	fmt.Fprintf(&b, "Units restocked: %d\n", d.UnitsRestocked)
	fmt.Fprintf(&b, "Revenue: %s\n", f.Format(d.RevenueTotal))
	fmt.Fprintf(&b, "Supplier orders: %d, average value %s\n", d.OrderCount, f.Format(d.AverageOrderValue))

	months := make([]string, len(d.RevenueByMonth))
	for i, m := range d.RevenueByMonth {
		months[i] = fmt.Sprintf("%s %d %s", m.Label(), m.Year, f.Format(m.Amount))
	}
	fmt.Fprintf(&b, "Revenue by month: %s\n", joinOrNone(months))

	byCategory := make([]string, len(d.UnitsByCategory))
	for i, c := range d.UnitsByCategory {
		byCategory[i] = fmt.Sprintf("%s %d", c.Name, c.Units)
	}
	fmt.Fprintf(&b, "Units sold by category: %s\n", joinOrNone(byCategory))

	best := make([]string, len(d.BestSellers))
	for i, p := range d.BestSellers {
		best[i] = fmt.Sprintf("%s (%d sold)", p.Name, p.Units)
	}
	fmt.Fprintf(&b, "Best sellers: %s\n", joinOrNone(best))

	low := make([]string, len(d.LowStock))
	for i, p := range d.LowStock {
		low[i] = fmt.Sprintf("%s (%d left)", p.Name, p.Stock)
	}
	fmt.Fprintf(&b, "Lowest stock: %s\n", joinOrNone(low))

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	fmt.Fprintf(&b, "Categories: %s\n", joinOrNone(names))
	b.WriteString("Point out trends, risks and one suggestion.")
	return b.String()
}

func describeWindow(w model.DateRange) string {
	const layout = "2006-01-02"
	switch {
	case w.Start != nil && w.End != nil:
		return w.Start.Format(layout) + " to " + w.End.Format(layout)
	case w.Start != nil:
		return "everything since " + w.Start.Format(layout)
	case w.End != nil:
		return "everything up to " + w.End.Format(layout)
	default:
		return "all recorded history"
	}
}

func joinOrNone(parts []string) string {
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// Messages wraps a prompt in the completion request body.
func Messages(prompt string) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}
}
