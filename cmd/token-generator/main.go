// Command token-generator mints bearer tokens for local testing, signed with
// the configured JWT secret.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

type identity struct {
	subject string
	role    domain.Role
}

// defaultIdentities are minted when no -subject is given.
var defaultIdentities = []identity{
	{subject: "admin1", role: domain.RoleAdmin},
	{subject: "u1", role: domain.RoleUser},
	{subject: "u2", role: domain.RoleUser},
}

func main() {
	subject := flag.String("subject", "", "subject to mint a token for")
	role := flag.String("role", string(domain.RoleUser), "role claim for -subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		os.Exit(1)
	}

	ids := defaultIdentities
	if *subject != "" {
		r := domain.Role(*role)
		if !r.Valid() {
			fmt.Fprintf(os.Stderr, "Unknown role %q: must be %s or %s\n", *role, domain.RoleUser, domain.RoleAdmin)
			os.Exit(1)
		}
		ids = []identity{{subject: *subject, role: r}}
	}

	for _, id := range ids {
		token, err := tokens.GenerateToken(context.Background(), id.subject, id.role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating token for %s: %v\n", id.subject, err)
			os.Exit(1)
		}
		fmt.Printf("%s (%s):\nBearer %s\n\n", id.subject, id.role, token)
	}
}
