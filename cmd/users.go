package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/attendly/facekiosk/internal/config"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage registered users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	RunE:  runUsersList,
}

var usersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a user without a face registration",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersAdd,
}

var usersRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-name>",
	Short: "Remove a user and their face registration",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersRemove,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersRemoveCmd)
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	client, err := newRecognitionClient(config.Load())
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	users, err := client.Users(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users registered.")
		return nil
	}

	fmt.Printf("%-24s %-24s %s\n", "ID", "NAME", "FACE")
	for _, user := range users {
		face := "no"
		if user.HasFaceRegistered {
			face = "yes"
		}
		fmt.Printf("%-24s %-24s %s\n", user.ID, user.Name, face)
	}
	return nil
}

func runUsersAdd(cmd *cobra.Command, args []string) error {
	client, err := newRecognitionClient(config.Load())
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	user, err := client.CreateUser(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (%s)\n", user.Name, user.ID)
	return nil
}

func runUsersRemove(cmd *cobra.Command, args []string) error {
	client, err := newRecognitionClient(config.Load())
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	id := args[0]
	// Allow removal by display name for convenience.
	if user, err := client.FindUserByName(ctx, id); err == nil && user != nil {
		id = user.ID
	}

	if err := client.DeleteUser(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Removed user %s\n", args[0])
	return nil
}
