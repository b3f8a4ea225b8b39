package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"instarecon/pkg/auth"
	"instarecon/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Instagram session cookies",
	Long: `Manage stored Instagram session cookies.

A session is optional; it lets the fetcher see profiles Instagram only serves
to logged-in visitors. Sessions are stored in:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only)

Never share your session cookies or credential files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store session cookies",
	Long: `Store Instagram session cookies under an account name
(default "default"). Cookie values are read without echo.`,
	Example: `  # Interactive login into the default account
  instarecon auth login

  # Named account, used later with --account work
  instarecon auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [account]",
	Short: "Remove stored session cookies",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Long:  `List stored accounts with masked cookie values.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	t := ui.NewTerminal(out, noColor)

	manager, err := newCredentialManager()
	if err != nil {
		t.PrintError("Failed to initialize credential manager", err)
		return errReported
	}

	name := auth.DefaultAccount
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}

	auth.WriteCookieGuide(out)

	reader := bufio.NewReader(cmd.InOrStdin())
	account, err := promptAccount(out, reader, name)
	if err != nil {
		t.PrintError("Failed to read session", err)
		return errReported
	}

	storeName, err := manager.Store(account)
	if err != nil {
		t.PrintError("Failed to store session", err)
		return errReported
	}

	t.PrintSuccess(fmt.Sprintf("Session '%s' stored in %s", account.Name, storeName))
	fmt.Fprintf(out, "\nUse it with: instarecon -u <username> --account %s\n", account.Name)
	return nil
}

// promptAccount reads the cookies for name. Secrets are read without echo
// when stdin is a terminal.
func promptAccount(out io.Writer, reader *bufio.Reader, name string) (*auth.Account, error) {
	sessionID, err := promptSecret(out, reader, "sessionid cookie value: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read session ID: %w", err)
	}
	csrfToken, err := promptSecret(out, reader, "csrftoken cookie value: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read CSRF token: %w", err)
	}

	fmt.Fprint(out, "User agent (Enter for default): ")
	userAgent, err := readLine(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read user agent: %w", err)
	}

	account := &auth.Account{
		Name:      name,
		SessionID: sessionID,
		CSRFToken: csrfToken,
		UserAgent: userAgent,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// stdinIsTerminal is replaced in tests
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

func promptSecret(out io.Writer, reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	if stdinIsTerminal() {
		fd := int(os.Stdin.Fd())
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(reader)
}

// readLine returns the next trimmed line; a final line without newline is accepted
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	t := ui.NewTerminal(cmd.OutOrStdout(), noColor)

	manager, err := newCredentialManager()
	if err != nil {
		t.PrintError("Failed to initialize credential manager", err)
		return errReported
	}

	name := auth.DefaultAccount
	if len(args) > 0 {
		name = args[0]
	}

	if err := manager.Delete(name); err != nil {
		t.PrintError("Failed to remove session", err)
		return errReported
	}
	t.PrintSuccess(fmt.Sprintf("Session '%s' removed", name))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	t := ui.NewTerminal(cmd.OutOrStdout(), noColor)

	manager, err := newCredentialManager()
	if err != nil {
		t.PrintError("Failed to initialize credential manager", err)
		return errReported
	}

	accounts, err := manager.List()
	if err != nil {
		t.PrintError("Failed to list sessions", err)
		return errReported
	}
	if len(accounts) == 0 {
		t.PrintWarning("No stored sessions. Run 'instarecon auth login' to add one.")
		return nil
	}

	writeAccounts(cmd.OutOrStdout(), accounts)
	t.PrintInfo("Stores", strings.Join(manager.Stores(), ", "))
	return nil
}

func writeAccounts(w io.Writer, accounts []*auth.Account) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Account", "sessionid", "csrftoken", "Updated"})
	for _, a := range accounts {
		m := a.Masked()
		tw.AppendRow(table.Row{m.Name, m.SessionID, m.CSRFToken, humanize.Time(a.LastModified)})
	}
	tw.Render()
}
