// Command analyze-item runs a single item through the valuation pipeline
// and prints the result, optionally with a buy-side prospect decision.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ollisal/flipstack/config"
	"github.com/ollisal/flipstack/internal/analysis"
	"github.com/ollisal/flipstack/internal/market"
)

func main() {
	name := flag.String("name", "", "Item name")
	label := flag.String("label", "", "Category label (free text)")
	brand := flag.String("brand", "", "Brand")
	size := flag.String("size", "", "Size")
	score := flag.Float64("score", 80, "Condition score 0-100")
	defects := flag.String("defects", "", "Comma-separated defect tags")
	retail := flag.Float64("retail", 0, "Fallback retail price")
	competitors := flag.Int("competitors", 0, "Active competing listings")
	doProspect := flag.Bool("prospect", false, "Also print the buy decision")
	rawJSON := flag.Bool("json", false, "Output raw JSON only")
	flag.Parse()

	if *name == "" && *label == "" {
		fmt.Fprintln(os.Stderr, "at least one of -name or -label is required")
		os.Exit(1)
	}

	config.LoadEnvFile()
	cfg := config.Load()

	pipeline := analysis.NewPipeline(analysis.Options{
		Sources: []market.Source{
			market.NewCompsClient(market.CompsClientOpts{
				BaseURL: cfg.CompsBaseURL,
				APIKey:  cfg.CompsAPIKey,
			}),
		},
	})

	req := analysis.Request{
		Label:               *label,
		Name:                *name,
		Brand:               *brand,
		Size:                *size,
		ConditionScore:      *score,
		Defects:             splitTags(*defects),
		FallbackRetailPrice: *retail,
		CompetitorCount:     *competitors,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *doProspect {
		pa := pipeline.Prospect(ctx, req)
		if *rawJSON {
			printJSON(pa)
			return
		}
		printResult(pa.Result)
		fmt.Printf("\nRecommendation: %s (risk: %s)\n", pa.Decision.Recommendation, pa.Decision.Risk)
		fmt.Printf("Max buy: %.2f  Target buy: %.2f  Potential profit: %.2f  ROI: %.1f%%\n",
			pa.Decision.MaxBuyPrice, pa.Decision.TargetBuyPrice, pa.Decision.PotentialProfit, pa.Decision.ExpectedROI)
		for _, reason := range pa.Decision.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
		return
	}

	res := pipeline.Analyze(ctx, req)
	if *rawJSON {
		printJSON(res)
		return
	}
	printResult(res)
}

func printResult(res *analysis.Result) {
	fmt.Printf("Category: %s (%s)\n", res.Category, res.CategoryLetter)
	fmt.Printf("Condition: %s (x%.2f)\n", res.Condition.Tier, res.Condition.Multiplier)
	fmt.Printf("Market: avg %.2f over %d samples, trend %s\n",
		res.Market.AveragePrice, res.Market.SampleCount, res.Market.Trend)
	fmt.Printf("Price: %.2f (quick %.2f, max %.2f)\n",
		res.Quote.Realistic, res.Quote.QuickSale, res.Quote.MaxProfit)
	fmt.Printf("Margin at realistic: %.2f after %.2f fees\n", res.Margins.Realistic, res.Fees.Total)
	fmt.Printf("Confidence: %.2f\n", res.Confidence)
	for _, f := range res.Failures {
		fmt.Printf("  ! %s/%s: %s\n", f.Kind, f.Source, f.Reason)
	}
}

func printJSON(v any) {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonBytes))
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
