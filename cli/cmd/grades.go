// ABOUTME: Grades command for the classeviva CLI
// ABOUTME: Prints per-subject averages by term and the distribution of marks

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/markalston/classeviva-gateway/cli/internal/client"
	"github.com/markalston/classeviva-gateway/cli/internal/report"
	"github.com/markalston/classeviva-gateway/cli/internal/styles"
	"github.com/spf13/cobra"
)

var listGrades bool

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Show grade averages",
	Long: `Show grade averages per subject for each term and overall.

Marks shown in blue do not count towards averages and are skipped, as are
marks without a numeric value.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runGrades(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(gradesCmd)
	gradesCmd.Flags().BoolVar(&listGrades, "list", false, "Also list every mark")
}

// runGrades fetches grades and returns exit code
func runGrades(ctx context.Context, w io.Writer) int {
	session, err := GetSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	grades, err := client.New(GetAPIURL()).Grades(ctx, session)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	summary := report.GradeReport(grades)

	if IsJSONOutput() {
		output := map[string]interface{}{"summary": summary}
		if listGrades {
			output["grades"] = grades
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, formatGradesHuman(summary))
	if listGrades {
		fmt.Fprintln(w)
		fmt.Fprintln(w, formatGradeList(grades))
	}

	return 0
}

func formatGradesHuman(s report.GradeSummary) string {
	if s.Count == 0 {
		return styles.Subtitle.Render("No grades available")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Grade Averages"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-28s %6s %6s %6s %5s\n", "Subject", "T1", "T2", "Year", "#")
	for _, sub := range s.Subjects {
		fmt.Fprintf(&b, "%-28s %6s %6s %6s %5d\n",
			truncate(sub.Subject, 28),
			plainAverage(sub.Term1Average),
			plainAverage(sub.Term2Average),
			plainAverage(sub.Average),
			sub.Count)
	}

	b.WriteString("\n")
	b.WriteString(styles.Field("Marks", fmt.Sprintf("%d", s.Count)) + "\n")
	b.WriteString(styles.Field("Subjects", fmt.Sprintf("%d", s.SubjectCount)) + "\n")
	b.WriteString(styles.Label.Render("Term 1 average") + styles.FormatAverage(s.Term1Average) + "\n")
	b.WriteString(styles.Label.Render("Term 2 average") + styles.FormatAverage(s.Term2Average) + "\n")
	b.WriteString(styles.Label.Render("Overall average") + styles.FormatAverage(s.Average) + "\n")

	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Distribution"))
	b.WriteString("\n")
	b.WriteString(formatDistribution(s.Distribution))

	return strings.TrimRight(b.String(), "\n")
}

func formatDistribution(dist map[int]int) string {
	values := make([]int, 0, len(dist))
	peak := 0
	for v, n := range dist {
		values = append(values, v)
		if n > peak {
			peak = n
		}
	}
	sort.Ints(values)

	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "%3d %s %d\n", v, styles.Histogram(dist[v], peak, 30), dist[v])
	}
	return b.String()
}

func formatGradeList(grades []client.Grade) string {
	var b strings.Builder
	for _, g := range grades {
		mark := g.DisplayValue
		if mark == "" && g.DecimalValue != nil {
			mark = fmt.Sprintf("%g", *g.DecimalValue)
		}
		line := fmt.Sprintf("%s  %-28s %6s", g.EvtDate, truncate(report.Subject(g), 28), mark)
		if !report.Counts(g) {
			line = styles.Subtitle.Render(line + "  (not counted)")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func plainAverage(avg float64) string {
	if avg == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", avg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
