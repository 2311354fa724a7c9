package report

import (
	"context"
	"strings"
	"testing"

	"lizardflip/adapters/stats"
	"lizardflip/domain/flip"
	"lizardflip/ports"
)

func sampleAnalysis(t *testing.T) *flip.Analysis {
	t.Helper()
	trials, err := flip.NewTrialSequenceFromCounts(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	opts := ports.DefaultEstimateOptions()
	opts.Compare = true
	opts.NullTheta = 0.1
	opts.CurvePoints = 5
	opts.Label = "lizard demo"

	est := stats.NewConjugateEstimator(stats.NewDistributions())
	analysis, err := est.Estimate(context.Background(), flip.UniformPrior(), trials, opts)
	if err != nil {
		t.Fatal(err)
	}
	return analysis
}

func TestMarkdown_ContainsKeySections(t *testing.T) {
	md := Markdown(sampleAnalysis(t))

	for _, want := range []string{
		"# Posterior Analysis lizard demo",
		"## Data",
		"- Trials: 100",
		"- Successes: 10",
		"## Distributions",
		"| Posterior | 11 | 91 |",
		"## Summary",
		"95% credible interval",
		"## Model Comparison",
		"Bayes factor",
		"Favors: **null**",
		"## Density Curve",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMarkdown_OmitsOptionalSections(t *testing.T) {
	trials, _ := flip.NewTrialSequenceFromCounts(10, 7)
	est := stats.NewConjugateEstimator(stats.NewDistributions())
	analysis, err := est.Estimate(context.Background(), flip.UniformPrior(), trials, ports.DefaultEstimateOptions())
	if err != nil {
		t.Fatal(err)
	}

	md := Markdown(analysis)
	if strings.Contains(md, "## Model Comparison") {
		t.Error("comparison section should be absent when not requested")
	}
	if strings.Contains(md, "## Density Curve") {
		t.Error("curve section should be absent when not requested")
	}
	// Untitled analyses fall back to the ID
	if !strings.Contains(md, string(analysis.ID)) {
		t.Error("report title should fall back to the analysis ID")
	}
}

func TestHTML_RendersTables(t *testing.T) {
	out := string(HTML(sampleAnalysis(t)))

	if !strings.Contains(out, "<h1") {
		t.Error("expected rendered heading")
	}
	if !strings.Contains(out, "<table>") {
		t.Error("expected rendered table")
	}
	if !strings.Contains(out, "<strong>null</strong>") {
		t.Error("expected bold verdict")
	}
}
