package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/attendly/facekiosk/internal/camera"
	"github.com/attendly/facekiosk/internal/capture"
	"github.com/attendly/facekiosk/internal/config"
	"github.com/attendly/facekiosk/internal/recognition"
)

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register a face from an image file",
	Long: `Register a face for the given person from an image file instead of a
live camera. The image goes through the same capture pipeline as the
kiosk, so it is re-encoded as JPEG at the configured resolution.

Example:
  facekiosk register "Jane Doe" --image /path/to/jane.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("image", "", "Path to the image file (required)")
	registerCmd.Flags().String("profile", "", "Resolution profile: default, hd or low")
	registerCmd.MarkFlagRequired("image")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := recognition.CleanSubjectName(args[0])
	if name == "" {
		return errors.New("name must not be empty")
	}
	imagePath := mustGetString(cmd, "image")

	cfg := config.Load()
	client, err := newRecognitionClient(cfg)
	if err != nil {
		return err
	}

	session := capture.NewSession(
		camera.NewStill(imagePath),
		recognition.RegisterSubmitter{Client: client},
		capture.WithConstraints(kioskConstraints(cfg, mustGetString(cmd, "profile"))),
		capture.WithSubject(name),
	)
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := runRound(ctx, session, 0); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}
