// ABOUTME: Card command for the classeviva CLI
// ABOUTME: Shows the student's registry card

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

	"github.com/markalston/classeviva-gateway/cli/internal/client"
	"github.com/markalston/classeviva-gateway/cli/internal/styles"
	"github.com/spf13/cobra"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Show the student card",
	Long:  `Show the student's name, school and identifiers from the registry card.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCard(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(cardCmd)
}

// runCard fetches the card and returns exit code
func runCard(ctx context.Context, w io.Writer) int {
	session, err := GetSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	card, err := client.New(GetAPIURL()).Card(ctx, session)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(card, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatCardHuman(card))
	}

	return 0
}

func formatCardHuman(c *client.Card) string {
	if c.FirstName == "" && c.LastName == "" && c.SchName == "" {
		return styles.Subtitle.Render("No card data available")
	}

	school := strings.TrimSpace(strings.Join([]string{c.SchName, c.SchDedication}, " "))
	city := c.SchCity
	if c.SchProv != "" {
		city = fmt.Sprintf("%s (%s)", c.SchCity, c.SchProv)
	}

	lines := []string{
		styles.Title.Render(strings.TrimSpace(c.FirstName + " " + c.LastName)),
		styles.Field("Student code", c.Ident),
		styles.Field("Birth date", c.BirthDate),
		styles.Field("School", school),
		styles.Field("City", city),
		styles.Field("School code", c.SchCode),
	}
	return styles.Panel.Render(strings.Join(lines, "\n"))
}
