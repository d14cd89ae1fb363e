package analysis

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

// buildListingText renders marketplace listing copy from a result. The
// output is plain structured text; HTML/CSV formatting belongs to the
// export layers.
func buildListingText(r *Result) string {
	title := r.Name
	if title == "" {
		title = r.Category
	}
	if r.Brand != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(r.Brand)) {
		title = r.Brand + " " + title
	}

	var details []string
	if r.Brand != "" {
		details = append(details, "Brand: "+r.Brand)
	}
	if r.Model != "" {
		details = append(details, "Model: "+r.Model)
	}
	if r.Size != "" {
		details = append(details, "Size: "+r.Size)
	}
	details = append(details, "Condition: "+r.Condition.Tier)
	for _, d := range r.Condition.Defects {
		details = append(details, "Note: "+d)
	}

	return formatDedent(`
		%s

		%s

		Asking %.2f. Priced against %d recent sales.
		Ships promptly, carefully packed.`,
		title, strings.Join(details, "\n"), r.Quote.Realistic, r.Market.SampleCount)
}

func formatDedent(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}
