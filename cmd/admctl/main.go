// admctl is the administrative CLI. Disabling and enabling accounts happens
// only here; the HTTP API has no route for it.
package main

import (
	"fmt"
	"os"

	"github.com/kuvagram/api-go/config"
	"github.com/kuvagram/api-go/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB() *gorm.DB {
	cfg := config.Load(".")
	return config.InitDB(cfg)
}

func setDisabled(username string, disabled bool) error {
	db := openDB()
	res := db.Model(&models.User{}).Where("username = ?", username).Update("disabled", disabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %q does not exist", username)
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "admctl",
		Short: "Administrative tooling for the kuvagram API",
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	disableCmd := &cobra.Command{
		Use:   "disable <username>",
		Short: "Disable an account; takes effect on the user's next request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setDisabled(args[0], true); err != nil {
				return err
			}
			fmt.Printf("user %q disabled\n", args[0])
			return nil
		},
	}

	enableCmd := &cobra.Command{
		Use:   "enable <username>",
		Short: "Re-enable a disabled account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setDisabled(args[0], false); err != nil {
				return err
			}
			fmt.Printf("user %q enabled\n", args[0])
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Show an account's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openDB()
			var user models.User
			if err := db.Where("username = ?", args[0]).First(&user).Error; err != nil {
				return fmt.Errorf("user %q does not exist", args[0])
			}
			status := "enabled"
			if user.Disabled {
				status = "disabled"
			}
			fmt.Printf("%s\t%s\tcreated %s\n", user.Username, status, user.CreatedAt.Format("2006-01-02"))
			return nil
		},
	}

	userCmd.AddCommand(disableCmd, enableCmd, showCmd)
	rootCmd.AddCommand(userCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
