package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtutil "github.com/5w1tchy/oku-storefront/internal/security/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

// tokenCmd mints a token the verified guard accepts, for local runs against
// a stub backend.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development token with AUTH_JWT_SECRET",
	Long: `Signs an HS256 token carrying the subject and role, using the same
secret the serve command verifies with. Put the output in the token cookie
and the role in the role cookie.

Example:
  storefront token --subject admin@oku.kg --role ADMIN --ttl 1h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jc := jwtutil.ConfigFrom(cfg.Auth)
		if !jc.Enabled() {
			return errors.New("AUTH_JWT_SECRET is not set")
		}
		role := strings.ToUpper(strings.TrimSpace(tokenRole))
		switch role {
		case "ADMIN", "MANAGER", "USER":
		default:
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		if tokenTTL <= 0 {
			return errors.New("--ttl must be positive")
		}
		tok, err := jwtutil.Sign(jc, jwtutil.NewClaims(tokenSubject, role, tokenTTL))
		if err != nil {
			return fmt.Errorf("sign: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "dev@oku.kg", "token subject (email)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "USER", "ADMIN, MANAGER or USER")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
