package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
	"github.com/manor5/electraSIR/internal/services"
	"github.com/spf13/cobra"
)

var (
	userRole     string
	userPassword string
)

// userCmd is the parent command for account management
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage API accounts",
}

// userAddCmd creates an account
var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an account",
	Long: `Create an account that can sign in to the API.

The password is taken from --password, or read from the first line of
standard input when the flag is omitted.

Roles:
  viewer   - search and read-only console
  operator - viewer plus missing-record reconciliation
  admin    - everything, including console writes and CSV import`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userRole, "role", string(models.RoleViewer), "Role: viewer, operator or admin")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "Password (read from stdin when empty)")
	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	role, err := models.ParseRole(userRole)
	if err != nil {
		return err
	}

	password := userPassword
	if password == "" {
		password, err = readPassword(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	authService := services.NewAuthService(repository.NewAuthRepository(db), cfg.Session.TTL, log)
	user, err := authService.CreateUser(ctx, args[0], password, role)
	if err != nil {
		return err
	}

	cmd.Printf("Created %s (%s) with id %s\n", user.Username, user.Role, user.ID)
	return nil
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("a password is required")
	}
	return password, nil
}
