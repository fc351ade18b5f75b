package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/attendly/facekiosk/internal/config"
	"github.com/attendly/facekiosk/internal/constants"
	"github.com/attendly/facekiosk/internal/recognition"
)

var registerBatchCmd = &cobra.Command{
	Use:   "register-batch <folder-path>",
	Short: "Register faces from a folder of images",
	Long: `Register faces for many people at once. Each image file in the folder
registers one person; the person's name is derived from the filename
with dashes and underscores turned into spaces.

  jane-doe.jpg     -> "jane doe"
  John_Smith.jpeg  -> "John Smith"

Supported formats: jpg, jpeg, png`,
	Args: cobra.ExactArgs(1),
	RunE: runRegisterBatch,
}

func init() {
	rootCmd.AddCommand(registerBatchCmd)

	registerBatchCmd.Flags().IntP("concurrency", "c", constants.WorkerPoolSize, "Number of parallel registrations")
}

// isImageFile checks if a file has a supported image extension
func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// subjectFromFilename derives the person's name from an image filename.
func subjectFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return recognition.CleanSubjectName(base)
}

func runRegisterBatch(cmd *cobra.Command, args []string) error {
	folderPath := args[0]
	concurrency := mustGetInt(cmd, "concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	info, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("cannot access folder %s: %w", folderPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", folderPath)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return fmt.Errorf("cannot read folder %s: %w", folderPath, err)
	}

	var filePaths []string
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			filePaths = append(filePaths, filepath.Join(folderPath, entry.Name()))
		}
	}
	if len(filePaths) == 0 {
		fmt.Println("No image files found in the specified folder.")
		return nil
	}

	cfg := config.Load()
	client, err := newRecognitionClient(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d image(s) to register\n", len(filePaths))

	bar := progressbar.NewOptions(len(filePaths),
		progressbar.OptionSetDescription("Registering"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("faces"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var (
		registerErrors []string
		errorsMu       sync.Mutex
		wg             sync.WaitGroup
		sem            = make(chan struct{}, concurrency)
	)

	ctx := context.Background()
	for _, filePath := range filePaths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer bar.Add(1)

			fileName := filepath.Base(path)
			subject := subjectFromFilename(fileName)
			if subject == "" {
				errorsMu.Lock()
				registerErrors = append(registerErrors, fmt.Sprintf("%s: cannot derive a name", fileName))
				errorsMu.Unlock()
				return
			}

			data, err := os.ReadFile(path)
			if err != nil {
				errorsMu.Lock()
				registerErrors = append(registerErrors, fmt.Sprintf("%s: %v", fileName, err))
				errorsMu.Unlock()
				return
			}

			if _, err := client.Register(ctx, subject, data); err != nil {
				errorsMu.Lock()
				registerErrors = append(registerErrors, fmt.Sprintf("%s: %v", fileName, err))
				errorsMu.Unlock()
			}
		}(filePath)
	}
	wg.Wait()
	fmt.Println()

	for _, errMsg := range registerErrors {
		fmt.Printf("Failed: %s\n", errMsg)
	}

	succeeded := len(filePaths) - len(registerErrors)
	fmt.Printf("Registered %d of %d face(s)\n", succeeded, len(filePaths))
	if succeeded == 0 {
		return fmt.Errorf("no faces were registered successfully")
	}
	return nil
}
