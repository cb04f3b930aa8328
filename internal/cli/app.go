// Package cli implements the operator command line for a hushdrop server:
// creating, viewing and revoking secrets over the HTTP API, and reading
// the access ledger with a locally minted admin token.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hushdrop/hushdrop/internal/server/auth"
)

const usage = `Usage: hushdrop <command> [flags]

Commands:
  create   create a secret (content read from the terminal, hidden)
  view     view a secret by token (consumes one view)
  revoke   revoke a secret you created
  list     list your recently created secrets
  logs     print the access ledger (requires HUSHDROP_ADMIN_SECRET)

Environment:
  HUSHDROP_SERVER        server base URL (default http://localhost:8080)
  HUSHDROP_ADMIN_SECRET  HMAC secret for minting the admin token
`

type App struct {
	client *Client
	out    io.Writer
	errOut io.Writer

	adminSecret string
	adminTTL    time.Duration
}

func NewApp(serverURL, adminSecret string, out, errOut io.Writer) *App {
	return &App{
		client:      NewClient(serverURL),
		out:         out,
		errOut:      errOut,
		adminSecret: adminSecret,
		adminTTL:    time.Hour,
	}
}

// Run dispatches a single command. The returned error is already
// user-presentable.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return fmt.Errorf("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "create":
		return a.runCreate(ctx, rest)
	case "view":
		return a.runView(ctx, rest)
	case "revoke":
		return a.runRevoke(ctx, rest)
	case "list":
		return a.runList(ctx)
	case "logs":
		return a.runLogs(ctx)
	default:
		fmt.Fprint(a.errOut, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) runCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	maxViews := fs.Int("views", 1, "number of views before the secret is revoked")
	ttl := fs.Duration("ttl", 0, "lifetime of the secret (default: server default)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	content, err := GetSecretText(a.out)
	if err != nil {
		return fmt.Errorf("reading secret: %w", err)
	}

	var expiresAt *time.Time
	if *ttl > 0 {
		t := time.Now().Add(*ttl)
		expiresAt = &t
	}

	info, err := a.client.CreateSecret(ctx, content, *maxViews, expiresAt)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Token:   %s\n", info.Token)
	fmt.Fprintf(a.out, "Views:   %d\n", info.MaxViews)
	fmt.Fprintf(a.out, "Expires: %s\n", info.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (a *App) runView(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: view <token>")
	}

	content, err := a.client.ViewSecret(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, content)
	return nil
}

func (a *App) runRevoke(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: revoke <token>")
	}

	if err := a.client.RevokeSecret(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Secret revoked.")
	return nil
}

func (a *App) runList(ctx context.Context) error {
	list, err := a.client.ListSecrets(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No secrets.")
		return nil
	}

	for _, s := range list {
		state := "active"
		if s.Revoked {
			state = "revoked"
		} else if !time.Now().Before(s.ExpiresAt) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "%s  views %d/%d  %s  expires %s\n",
			s.Token, s.ViewCount, s.MaxViews, state, s.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (a *App) runLogs(ctx context.Context) error {
	if a.adminSecret == "" {
		return fmt.Errorf("HUSHDROP_ADMIN_SECRET is required for logs")
	}

	subject := "cli"
	if u := os.Getenv("USER"); u != "" {
		subject = u
	}
	token, err := auth.GenerateToken(subject, []byte(a.adminSecret), a.adminTTL)
	if err != nil {
		return fmt.Errorf("minting admin token: %w", err)
	}
	a.client.SetAdminToken(token)

	entries, err := a.client.RecentLogs(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		token := "-"
		if e.SecretToken != nil {
			token = *e.SecretToken
		}
		details := ""
		if e.Details != nil {
			details = "  " + *e.Details
		}
		fmt.Fprintf(a.out, "%s  %-16s  %-15s  %s%s\n",
			e.AccessedAt.Format(time.RFC3339), e.Action, e.IPAddress, token, details)
	}
	return nil
}
