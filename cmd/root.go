package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/attendly/facekiosk/internal/config"
	"github.com/attendly/facekiosk/internal/recognition"
)

var captureDir string

var rootCmd = &cobra.Command{
	Use:   "facekiosk",
	Short: "A face recognition attendance kiosk",
	Long: `Face Kiosk is an attendance terminal that connects a camera to a
face recognition backend. It captures frames after a short countdown
and submits them for registration or attendance check-in/check-out,
either from the command line or through the built-in web kiosk.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// newRecognitionClient builds a Recognition API client from config and
// the global capture flag.
func newRecognitionClient(cfg *config.Config) (*recognition.Client, error) {
	if cfg.Recognition.URL == "" {
		return nil, fmt.Errorf("ATTEND_API_URL environment variable is required")
	}

	dir := captureDir
	if dir == "" {
		dir = cfg.Recognition.CaptureDir
	}

	return recognition.NewClient(cfg.Recognition.URL,
		recognition.WithToken(cfg.Recognition.Token),
		recognition.WithTimeout(time.Duration(cfg.Recognition.TimeoutSeconds)*time.Second),
		recognition.WithCaptureDir(dir),
	)
}
