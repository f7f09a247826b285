// ABOUTME: Login command for the classeviva CLI
// ABOUTME: Exchanges credentials for a session, prompting with a form when flags are missing

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/classeviva-gateway/cli/internal/client"
	"github.com/markalston/classeviva-gateway/cli/internal/styles"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

// prompt asks for whichever credentials are missing. Replaced in tests.
var prompt = promptCredentials

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a session",
	Long: `Log in with a Classeviva username and password.

Missing credentials are asked for interactively. On success the session is
printed as shell exports for CLASSEVIVA_TOKEN and CLASSEVIVA_USER_ID.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, loginUsername, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Classeviva username (e.g. S1234567X)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Classeviva password")
}

// runLogin performs the login and returns exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	if username == "" || password == "" {
		if err := prompt(&username, &password); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(w, "Login canceled")
			} else {
				fmt.Fprintf(w, "Error: %v\n", err)
			}
			return 2
		}
	}

	session, err := client.New(GetAPIURL()).Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(session, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatLoginHuman(session))
	}

	return 0
}

func formatLoginHuman(s *client.Session) string {
	return fmt.Sprintf(`%s Logged in as student %s

export %s=%s
export %s=%s`,
		styles.Badge("OK", styles.StatusOK), s.UserID,
		envToken, s.Token,
		envUserID, s.UserID)
}

// promptCredentials shows a form for the username and password.
func promptCredentials(username, password *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Student code, email or badge").
				Placeholder("e.g., S1234567X").
				Value(username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		).Title("Classeviva Login"),
	).WithTheme(loginTheme())

	return form.Run()
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// loginTheme tints the base huh theme with the CLI palette.
func loginTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	return t
}
