package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/orderdesk/internal/remote"
	"github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/config"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// devtoken mints a desk API bearer token signed with ORDERDESK_JWT_SECRET for local work, and with
// -check confirms the inventory service accepts it.
func main() {
	logg := logger.New(logger.Options{ServiceName: "devtoken"})
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logg.Error(context.Background(), "devtoken failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("user", "", "username carried in the token")
	role := fs.String("role", string(enums.RoleBranchUser), "role: admin|branch_user|inventory_user|supplier|store_user")
	branch := fs.String("branch", string(enums.BranchMain), "branch used for stock requests")
	ttl := fs.Duration("ttl", 8*time.Hour, "token lifetime")
	check := fs.Bool("check", false, "list inventory with the minted token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	parsedRole, err := enums.ParseRole(*role)
	if err != nil {
		return err
	}
	if _, err := enums.ParseBranch(*branch); err != nil {
		return err
	}

	now := time.Now()
	token, err := auth.MintAccessToken(cfg.JWT, now, *ttl, auth.AccessTokenPayload{
		Username: *username,
		Role:     parsedRole,
		Branch:   *branch,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)

	if !*check {
		return nil
	}
	claims, err := auth.ParseAccessToken(cfg.JWT, token, now)
	if err != nil {
		return err
	}
	client, err := remote.NewClient(cfg.Remote.BaseURL, auth.NewStaticSource(auth.FromClaims(token, claims)),
		remote.WithTimeout(cfg.Remote.Timeout),
	)
	if err != nil {
		return err
	}
	items, err := client.ListInventory(ctx)
	if err != nil {
		return fmt.Errorf("inventory service refused the token: %w", err)
	}
	fmt.Fprintf(out, "inventory items visible: %d\n", len(items))
	return nil
}
