package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the signed-in session and accounts",
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		phone, _ := cmd.Flags().GetString("phone")
		if email == "" || password == "" || username == "" {
			return fmt.Errorf("--username, --email and --password are required")
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		session, msg, err := a.Session.Register(cmd.Context(), transport.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
			Phone:    phone,
		})
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Println(msg)
		}
		fmt.Printf("Signed in as %s <%s>\n", session.Username, session.Email)
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		session, msg, err := a.Session.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Println(msg)
		}
		fmt.Printf("Signed in as %s <%s>\n", session.Username, session.Email)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		serverErr := a.Session.Logout(cmd.Context())
		a.Cart.Reset()
		a.Products.ResetLocal()
		a.Debts.ResetLocal()
		a.Expenditures.ResetLocal()
		a.Reports.ResetLocal()
		a.Dashboard.ResetLocal()
		if serverErr != nil {
			// Local state is cleared regardless; report the server failure.
			fmt.Println("Server logout failed; local session cleared.")
			return nil
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		session := a.Session.Current()
		if !session.Authenticated {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("User:     %s <%s>\n", session.Username, session.Email)
		fmt.Printf("Admin:    %v\n", session.IsAdmin)
		fmt.Printf("Verified: %v\n", session.EmailVerified)
		fmt.Printf("Token expires: %s\n", session.TokenExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a token refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Session.Refresh(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Token refreshed.")
		return nil
	},
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Confirm an account's email with a mailed code",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		code, _ := cmd.Flags().GetString("code")
		if email == "" || code == "" {
			return fmt.Errorf("--email and --code are required")
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		msg, err := a.Session.VerifyEmail(cmd.Context(), email, code)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var authUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		var users []domain.User
		if role != "" {
			users, err = a.Session.UsersByRole(cmd.Context(), role)
		} else {
			users, err = a.Session.AllUsers(cmd.Context())
		}
		if err != nil {
			return err
		}
		for _, u := range users {
			flag := ""
			if u.IsAdmin {
				flag = " [admin]"
			}
			fmt.Printf("%s  %s <%s>%s\n", u.ID, u.Username, u.Email, flag)
		}
		return nil
	},
}

var authBulkDeleteCmd = &cobra.Command{
	Use:   "bulk-delete [userID...]",
	Short: "Delete a batch of accounts (admin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		outcome, msg, err := a.Session.BulkDelete(cmd.Context(), args)
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Println(msg)
		}
		fmt.Printf("Deleted: %d, skipped admins: %d, failed: %d\n",
			outcome.DeletedCount, outcome.SkippedCount(), outcome.FailedCount())
		return nil
	},
}

func init() {
	authRegisterCmd.Flags().String("username", "", "account username")
	authRegisterCmd.Flags().String("email", "", "account email")
	authRegisterCmd.Flags().String("password", "", "account password")
	authRegisterCmd.Flags().String("phone", "", "contact phone")

	authLoginCmd.Flags().String("email", "", "account email")
	authLoginCmd.Flags().String("password", "", "account password")

	authVerifyCmd.Flags().String("email", "", "account email")
	authVerifyCmd.Flags().String("code", "", "verification code")

	authUsersCmd.Flags().String("role", "", "filter by role")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authVerifyCmd)
	authCmd.AddCommand(authUsersCmd)
	authCmd.AddCommand(authBulkDeleteCmd)
}
