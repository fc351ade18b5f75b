package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/attendly/facekiosk/internal/camera"
	"github.com/attendly/facekiosk/internal/capture"
	"github.com/attendly/facekiosk/internal/config"
	"github.com/attendly/facekiosk/internal/constants"
	"github.com/attendly/facekiosk/internal/recognition"
)

var kioskCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Run the attendance kiosk on a local camera",
	Long: `Run the attendance capture loop on a locally attached camera.
Each round opens the camera, waits for a live preview, counts down and
submits the captured frame to the recognition backend. Use --register
to register a face instead of recording attendance.

Example:
  facekiosk kiosk
  facekiosk kiosk --type check_out --loop
  facekiosk kiosk --register "Jane Doe" --profile hd`,
	RunE: runKiosk,
}

func init() {
	rootCmd.AddCommand(kioskCmd)

	kioskCmd.Flags().Int("device", -1, "Camera device index (overrides ATTEND_CAMERA_DEVICE)")
	kioskCmd.Flags().String("profile", "", "Resolution profile: default, hd or low")
	kioskCmd.Flags().Int("countdown", constants.DefaultCountdownSeconds, "Countdown seconds before capture (0 captures immediately)")
	kioskCmd.Flags().String("type", "check_in", "Attendance type: check_in or check_out")
	kioskCmd.Flags().String("register", "", "Register a face under this name instead of recording attendance")
	kioskCmd.Flags().Bool("loop", false, "Keep capturing rounds until interrupted")
}

// kioskConstraints maps the selected resolution profile onto capture
// constraints.
func kioskConstraints(cfg *config.Config, profileName string) capture.Constraints {
	if profileName == "" {
		profileName = cfg.Camera.Profile
	}
	profile := cfg.GetProfile(profileName)
	c := capture.DefaultConstraints()
	if profile.Width > 0 && profile.Height > 0 {
		c.Width = profile.Width
		c.Height = profile.Height
	}
	return c
}

// countdownBar renders the countdown with one tick per elapsed second.
func countdownBar(seconds int) *progressbar.ProgressBar {
	return progressbar.NewOptions(seconds,
		progressbar.OptionSetDescription("Capturing in"),
		progressbar.OptionShowCount(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// waitForSettled polls the session until it reaches a phase where the
// caller has to act: live preview, blocked playback or a terminal state.
func waitForSettled(ctx context.Context, session *capture.Session, timeout time.Duration) (capture.Phase, error) {
	deadline := time.Now().Add(timeout)
	for {
		switch phase := session.Phase(); phase {
		case capture.PhasePlaying, capture.PhaseNeedsGesture, capture.PhaseSucceeded, capture.PhaseFailed:
			return phase, nil
		}
		if time.Now().After(deadline) {
			return session.Phase(), fmt.Errorf("camera did not become ready within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return session.Phase(), ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// runRound drives one capture round to a terminal phase.
func runRound(ctx context.Context, session *capture.Session, countdown int) error {
	if err := session.Start(ctx); err != nil {
		return err
	}

	phase, err := waitForSettled(ctx, session, 15*time.Second)
	if err != nil {
		return err
	}
	if phase == capture.PhaseNeedsGesture {
		// Headless runs have no gesture to wait for, start playback directly.
		if err := session.ManualPlay(ctx); err != nil {
			return fmt.Errorf("could not start playback: %w", err)
		}
		if phase, err = waitForSettled(ctx, session, 15*time.Second); err != nil {
			return err
		}
	}
	if phase != capture.PhasePlaying {
		reason, msg := session.Failure()
		return fmt.Errorf("camera failed (%s): %s", reason, msg)
	}

	if err := session.StartCountdown(ctx, countdown); err != nil {
		return fmt.Errorf("could not start countdown: %w", err)
	}

	// Wait for submission to finish.
	deadline := time.Now().Add(60 * time.Second)
	for {
		switch session.Phase() {
		case capture.PhaseSucceeded:
			fmt.Printf("\n%s\n", session.Result().Message)
			return nil
		case capture.PhaseFailed:
			reason, msg := session.Failure()
			return fmt.Errorf("capture failed (%s): %s", reason, msg)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("capture round timed out")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func runKiosk(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	client, err := newRecognitionClient(cfg)
	if err != nil {
		return err
	}

	device := mustGetInt(cmd, "device")
	if device < 0 {
		device = cfg.Camera.Device
	}
	countdown := mustGetInt(cmd, "countdown")
	registerName := mustGetString(cmd, "register")
	loop := mustGetBool(cmd, "loop")

	var submitter capture.Submitter
	if registerName != "" {
		registerName = recognition.CleanSubjectName(registerName)
		submitter = recognition.RegisterSubmitter{Client: client}
	} else {
		kind := recognition.AttendanceKind(mustGetString(cmd, "type"))
		if kind != recognition.CheckIn && kind != recognition.CheckOut {
			return fmt.Errorf("invalid attendance type %q, use check_in or check_out", kind)
		}
		submitter = recognition.AttendSubmitter{Client: client, Kind: kind}
	}

	var bar *progressbar.ProgressBar
	session := capture.NewSession(camera.NewWebcam(device), submitter,
		capture.WithConstraints(kioskConstraints(cfg, mustGetString(cmd, "profile"))),
		capture.WithSubject(registerName),
		capture.WithCountdownFunc(func(remaining int) {
			if bar != nil {
				bar.Add(1)
			}
		}),
	)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping...")
		cancel()
		session.Close()
	}()

	for {
		if countdown > 0 {
			bar = countdownBar(countdown)
		}
		err := runRound(ctx, session, countdown)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !loop {
				return err
			}
			fmt.Printf("\n%v\n", err)
		}
		if !loop {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}
