package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/glasspane-ai/glasspane/internal/adapter/postgres"
	"github.com/glasspane-ai/glasspane/internal/config"
	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
	"github.com/glasspane-ai/glasspane/internal/service"
)

// runAdmin dispatches admin subcommands (create-tenant, create-key, list-keys).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-tenant":
		return runAdminCreateTenant(args[1:])
	case "create-key":
		return runAdminCreateKey(args[1:])
	case "list-keys":
		return runAdminListKeys(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: glasspane admin <command> [options]

Commands:
  create-tenant    Create a new tenant
  create-key       Create an API key for a tenant
  list-keys        List a tenant's API keys
  help             Show this help message

Examples:
  glasspane admin create-tenant --name "Acme Corp"
  glasspane admin create-key --tenant <tenant-id> --name ci
  glasspane admin list-keys --tenant <tenant-id>
`)
}

func loadAdminDeps() (*service.AuthService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	authSvc := service.NewAuthService(postgres.NewStore(pool))

	cleanup := func() {
		pool.Close()
	}
	return authSvc, cleanup, nil
}

func runAdminCreateTenant(args []string) error {
	fs := flag.NewFlagSet("create-tenant", flag.ContinueOnError)
	name := fs.String("name", "", "tenant display name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	authSvc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := authSvc.CreateTenant(context.Background(), *name)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Tenant created: %s (id=%s)\n", t.Name, t.ID)
	return nil
}

func runAdminCreateKey(args []string) error {
	fs := flag.NewFlagSet("create-key", flag.ContinueOnError)
	tenantID := fs.String("tenant", "", "tenant ID (required)")
	name := fs.String("name", "", "key name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenantID == "" {
		return fmt.Errorf("--tenant is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	authSvc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := authSvc.CreateAPIKey(context.Background(), tenant.CreateAPIKeyRequest{
		TenantID: *tenantID,
		Name:     *name,
	})
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}

	// The plain key is shown exactly once. Warnings go to stderr so the key
	// itself stays pipeable when stdout is redirected.
	if term.IsTerminal(int(syscall.Stdout)) {
		fmt.Fprintln(os.Stderr, "API key created. Store it now; it cannot be retrieved again.")
	}
	fmt.Println(resp.PlainKey)
	return nil
}

func runAdminListKeys(args []string) error {
	fs := flag.NewFlagSet("list-keys", flag.ContinueOnError)
	tenantID := fs.String("tenant", "", "tenant ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenantID == "" {
		return fmt.Errorf("--tenant is required")
	}

	authSvc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	keys, err := authSvc.ListAPIKeys(context.Background(), *tenantID)
	if err != nil {
		return fmt.Errorf("list api keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("No API keys found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPREFIX\tLAST_USED\tCREATED")
	for i := range keys {
		lastUsed := "never"
		if !keys[i].LastUsedAt.IsZero() {
			lastUsed = keys[i].LastUsedAt.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s...\t%s\t%s\n",
			keys[i].ID, keys[i].Name, keys[i].Prefix, lastUsed, keys[i].CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
