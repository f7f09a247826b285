// ABOUTME: Root command for the classeviva CLI
// ABOUTME: Handles global flags, gateway URL and session configuration

package cmd

import (
	"errors"
	"os"

	"github.com/markalston/classeviva-gateway/cli/internal/client"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	token      string
	userID     string
)

const defaultAPIURL = "http://localhost:8080"

// Environment variables read by the CLI.
const (
	envAPIURL = "CLASSEVIVA_API_URL"
	envToken  = "CLASSEVIVA_TOKEN"
	envUserID = "CLASSEVIVA_USER_ID"
)

var errNoSession = errors.New("not logged in: run `classeviva login` and export CLASSEVIVA_TOKEN and CLASSEVIVA_USER_ID, or pass --token and --user-id")

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "classeviva",
	Short: "CLI for the Classeviva gateway",
	Long: `classeviva is a command-line client for the Classeviva gateway.

It logs in, shows the student card, and reports grade averages and absences.

Environment Variables:
  CLASSEVIVA_API_URL  Gateway URL (default: http://localhost:8080)
  CLASSEVIVA_TOKEN    Session token returned by login
  CLASSEVIVA_USER_ID  Numeric student id returned by login`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Gateway URL (overrides CLASSEVIVA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Session token (overrides CLASSEVIVA_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&userID, "user-id", "", "Student id (overrides CLASSEVIVA_USER_ID)")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv(envAPIURL); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// GetSession returns the session from flags or env. Both parts are required.
func GetSession() (client.Session, error) {
	s := client.Session{Token: token, UserID: userID}
	if s.Token == "" {
		s.Token = os.Getenv(envToken)
	}
	if s.UserID == "" {
		s.UserID = os.Getenv(envUserID)
	}
	if s.Token == "" || s.UserID == "" {
		return client.Session{}, errNoSession
	}
	return s, nil
}
