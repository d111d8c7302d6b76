package main

import (
	"fmt"

	"github.com/5w1tchy/oku-storefront/internal/routeguard"
	"github.com/spf13/cobra"
)

var (
	guardToken string
	guardRole  string
)

// guardCmd explains what the route guard would do for a request.
var guardCmd = &cobra.Command{
	Use:   "guard [path]",
	Short: "Show the route guard decision for a path",
	Long: `Prints the class of a path and where the guard would send a caller
holding the given token and role cookies.

Example:
  storefront guard /admin/books --token abc --role MANAGER`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		d := routeguard.Decide(path, guardToken, guardRole)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "path:     %s\n", path)
		fmt.Fprintf(out, "class:    %s\n", d.Class)
		if d.Allowed() {
			fmt.Fprintln(out, "decision: pass")
			return nil
		}
		fmt.Fprintf(out, "decision: redirect %s\n", d.Redirect)
		if d.ClearAuth {
			fmt.Fprintln(out, "cookies:  token and role cleared")
		}
		return nil
	},
}

func init() {
	guardCmd.Flags().StringVar(&guardToken, "token", "", "value of the token cookie")
	guardCmd.Flags().StringVar(&guardRole, "role", "", "value of the role cookie (ADMIN, MANAGER, USER)")
}
