package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lizardflip/domain/flip"
)

// Markdown renders an analysis as a markdown report: prior, data, posterior,
// summary statistics, optional model comparison and a density curve table.
func Markdown(analysis *flip.Analysis) string {
	var b strings.Builder

	title := analysis.Label
	if title == "" {
		title = string(analysis.ID)
	}
	fmt.Fprintf(&b, "# Posterior Analysis %s\n\n", title)
	fmt.Fprintf(&b, "Method: `%s` | Computed: %s\n\n", analysis.Method, analysis.CreatedAt)

	fmt.Fprintf(&b, "## Data\n\n")
	fmt.Fprintf(&b, "- Trials: %d\n", analysis.Trials.Trials)
	fmt.Fprintf(&b, "- Successes: %d\n", analysis.Trials.Successes)
	fmt.Fprintf(&b, "- Failures: %d\n\n", analysis.Trials.Failures)

	fmt.Fprintf(&b, "## Distributions\n\n")
	fmt.Fprintf(&b, "| | alpha | beta | mean |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| Prior | %g | %g | %.4f |\n", analysis.Prior.Alpha, analysis.Prior.Beta, analysis.Prior.Mean())
	fmt.Fprintf(&b, "| Posterior | %g | %g | %.4f |\n\n", analysis.Posterior.Alpha, analysis.Posterior.Beta, analysis.Posterior.Mean())

	s := analysis.Summary
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Posterior mean: %.6f\n", s.Mean)
	fmt.Fprintf(&b, "- Posterior variance: %.6g\n", s.Variance)
	fmt.Fprintf(&b, "- Posterior std dev: %.6g\n", s.StdDev)
	fmt.Fprintf(&b, "- %g%% credible interval: [%.6f, %.6f]\n\n",
		s.Interval.Mass*100, s.Interval.Lower, s.Interval.Upper)

	if c := analysis.Comparison; c != nil {
		fmt.Fprintf(&b, "## Model Comparison\n\n")
		fmt.Fprintf(&b, "Null model fixes theta = %g; the alternative lets theta vary under the prior.\n\n", c.NullTheta)
		fmt.Fprintf(&b, "- p(data | null) = %.6g\n", c.LikelihoodNull)
		fmt.Fprintf(&b, "- p(data | alternative) = %.6g\n", c.MarginalLikelihood)
		fmt.Fprintf(&b, "- Bayes factor (alt/null) = %.6g\n", c.BayesFactor)
		fmt.Fprintf(&b, "- p(null | data) = %.4f\n", c.PosteriorProbNull)
		fmt.Fprintf(&b, "- p(alternative | data) = %.4f\n", c.PosteriorProbAlt)
		fmt.Fprintf(&b, "- Favors: **%s**\n\n", c.Favors())
	}

	if len(analysis.Curve) > 0 {
		fmt.Fprintf(&b, "## Density Curve\n\n")
		fmt.Fprintf(&b, "| theta | prior density | posterior density |\n|---|---|---|\n")
		for _, pt := range analysis.Curve {
			fmt.Fprintf(&b, "| %.3f | %.4f | %.4f |\n", pt.Theta, pt.PriorDensity, pt.PosteriorDensity)
		}
		fmt.Fprintf(&b, "\n")
	}

	return b.String()
}

// HTML renders the markdown report to HTML
func HTML(analysis *flip.Analysis) []byte {
	md := []byte(Markdown(analysis))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}
