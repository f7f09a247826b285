// ABOUTME: Absences command for the classeviva CLI
// ABOUTME: Reports absences, late entries and early exits against the yearly limit

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/markalston/classeviva-gateway/cli/internal/client"
	"github.com/markalston/classeviva-gateway/cli/internal/report"
	"github.com/markalston/classeviva-gateway/cli/internal/styles"
	"github.com/spf13/cobra"
)

var absencesCmd = &cobra.Command{
	Use:   "absences",
	Short: "Show the absence report",
	Long: `Show absences, late entries and early exits for the current school year.

The absence limit is 25% of the school days between September 1 and June 30,
excluding weekends, public holidays and the Christmas and Easter breaks. The
Easter break is approximated, so figures are indicative.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAbsences(ctx, os.Stdout, time.Now())
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(absencesCmd)
}

// runAbsences fetches absence events and returns exit code
func runAbsences(ctx context.Context, w io.Writer, now time.Time) int {
	session, err := GetSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	events, err := client.New(GetAPIURL()).Absences(ctx, session)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	summary := report.AbsenceReport(events, now)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatAbsencesHuman(summary))
	}

	return 0
}

func formatAbsencesHuman(s report.AbsenceSummary) string {
	level := styles.UsageLevel(s.LimitUsedPercent)

	lines := []string{
		styles.Title.Render("Absence Report (approximate)"),
		styles.Label.Render("Absences") + styles.Colored(fmt.Sprintf("%d", s.Absences), level),
		styles.Field("Late entries", fmt.Sprintf("%d", s.LateEntries)),
		styles.Field("Early exits", fmt.Sprintf("%d", s.EarlyExits)),
		"",
		styles.Field("Absence limit (25%)", fmt.Sprintf("%d days", s.Limit)),
		styles.Label.Render("Still allowed") + styles.Colored(fmt.Sprintf("%d days", s.Remaining), level),
		styles.Field("Absence rate", fmt.Sprintf("%.1f%% of elapsed days", s.AbsencePercent)),
		styles.Field("School days", fmt.Sprintf("%d total, %d elapsed, %d remaining",
			s.SchoolYear.Total, s.SchoolYear.Elapsed, s.SchoolYear.Remaining)),
		styles.Field("Year elapsed", fmt.Sprintf("%.1f%%", s.YearElapsedPercent)),
		"",
		fmt.Sprintf("Limit used  %s %.1f%%", styles.ProgressBar(s.LimitUsedPercent, 30), s.LimitUsedPercent),
	}

	if s.Remaining < 0 {
		lines = append(lines, styles.Badge("OVER LIMIT", styles.StatusCritical))
	}

	return strings.Join(lines, "\n")
}
