package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/gen2brain/malgo"

	"github.com/BoxedFruits/pitch-detection-app/pkg/capture"
	"github.com/BoxedFruits/pitch-detection-app/pkg/estimate"
	"github.com/BoxedFruits/pitch-detection-app/pkg/pitch"
	"github.com/BoxedFruits/pitch-detection-app/pkg/tone"
	"github.com/BoxedFruits/pitch-detection-app/pkg/tuner"
)

const (
	toneSampleRate = 48000
	chartEveryTick = 3 // chart redraw cadence, in ticks
)

// sessionRunner holds the teardown of the currently listening session so
// selecting a new device stops the previous one first.
type sessionRunner struct {
	stop func()
	mu   sync.Mutex
}

func (r *sessionRunner) replace(stop func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		r.stop()
	}
	r.stop = stop
}

func (r *sessionRunner) shutdown() {
	r.replace(nil)
}

func main() {
	runtime.LockOSThread()
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("malgo: %s", message)
	})
	if err != nil {
		log.Fatalf("malgo init failed: %v", err)
	}
	defer ctx.Free()
	defer ctx.Uninit()

	a := app.NewWithID("guitar-tuner")
	w := a.NewWindow("Guitar Tuner")
	w.Resize(fyne.NewSize(420, 340))
	prefs := a.Preferences()

	statusText := binding.NewString()
	_ = statusText.Set("Select input device")
	statusLabel := widget.NewLabelWithData(statusText)

	noteLabel := canvas.NewText(pitch.NoNote, theme.ForegroundColor())
	noteLabel.Alignment = fyne.TextAlignCenter
	noteLabel.TextStyle = fyne.TextStyle{Bold: true}
	noteLabel.TextSize = 34.0

	freqLabel := canvas.NewText("-- Hz", theme.ForegroundColor())
	freqLabel.Alignment = fyne.TextAlignCenter
	freqLabel.TextStyle = fyne.TextStyle{Monospace: true}
	freqLabel.TextSize = 22.0

	noteText := binding.NewString()
	_ = noteText.Set(pitch.NoNote)
	freqText := binding.NewString()
	_ = freqText.Set("-- Hz")

	// Binding updates -> canvas.Text
	noteText.AddListener(binding.NewDataListener(func() {
		val, _ := noteText.Get()
		noteLabel.Text = val
		noteLabel.Refresh()
	}))
	freqText.AddListener(binding.NewDataListener(func() {
		val, _ := freqText.Get()
		freqLabel.Text = val
		freqLabel.Refresh()
	}))

	centsBar := NewCentsBar()
	chart := NewHistoryChart()

	var player *tone.Player
	var playerOnce sync.Once
	playButton := widget.NewButton("Play E2 reference", func() {
		playerOnce.Do(func() {
			p, err := tone.NewPlayer(toneSampleRate)
			if err != nil {
				log.Printf("tone player init failed: %v", err)
				return
			}
			player = p
		})
		if player == nil {
			_ = statusText.Set("Reference tone unavailable")
			return
		}
		low := pitch.Classes[0]
		if player.Play(low.Frequency, tone.DefaultDuration, tone.DefaultFade) {
			_ = statusText.Set(fmt.Sprintf("Playing %s (%.2f Hz)", low.Name, low.Frequency))
		}
	})

	devices, err := capture.Devices(ctx)
	if err != nil {
		log.Fatalf("input devices: %v", err)
	}
	deviceNames := make([]string, len(devices))
	for i, d := range devices {
		deviceNames[i] = d.Name
	}

	runner := &sessionRunner{}
	lastDevice := prefs.String("last_device")
	deviceSelect := widget.NewSelect(deviceNames, func(name string) {
		selected := capture.FindDevice(devices, name)
		if selected == nil {
			_ = statusText.Set("Device not found")
			return
		}
		prefs.SetString("last_device", name)
		_ = statusText.Set("Starting mic...")
		stop, err := startSession(ctx, selected.Info, centsBar, chart, freqText, noteText, statusText)
		if err != nil {
			_ = statusText.Set(statusForError(err))
			return
		}
		_ = statusText.Set(fmt.Sprintf("Listening on %s", selected.Name))
		runner.replace(stop)
	})
	deviceSelect.PlaceHolder = "Input device"
	if len(deviceNames) > 0 {
		if idx := indexOf(deviceNames, lastDevice); idx >= 0 {
			deviceSelect.SetSelected(lastDevice)
		} else {
			deviceSelect.SetSelected(deviceNames[0])
		}
	}

	content := container.NewVBox(
		deviceSelect,
		container.NewCenter(noteLabel),
		container.NewCenter(freqLabel),
		centsBar,
		chart,
		playButton,
		statusLabel,
	)
	w.SetContent(content)

	shutdown := func() {
		runner.shutdown()
		if player != nil {
			if err := player.Close(); err != nil {
				log.Printf("tone player close: %v", err)
			}
		}
	}

	// Stop audio cleanly on window close or Ctrl+C.
	w.SetCloseIntercept(func() {
		shutdown()
		a.Quit()
	})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		shutdown()
		w.Close()
	}()

	w.ShowAndRun()
}

// startSession wires microphone, estimator and session for one device and
// starts the acquisition loop. The returned function tears it all down.
func startSession(ctx *malgo.AllocatedContext, info *malgo.DeviceInfo, bar *CentsBar, chart *HistoryChart, freqText, noteText, statusText binding.String) (func(), error) {
	cfg := tuner.DefaultConfig()
	mic := capture.NewMicrophone(ctx, info, cfg.WindowSize)
	detector := estimate.New(estimate.DefaultConfig())

	var session *tuner.Session
	ticks := 0
	onUpdate := func(u tuner.Update) {
		ticks++
		if u.Frequency <= 0 {
			_ = freqText.Set("-- Hz")
			_ = noteText.Set(pitch.NoNote)
			bar.SetCents(0, false)
			_ = statusText.Set(fmt.Sprintf("Listening... (level %.2f)", mic.Level()))
		} else {
			_ = freqText.Set(fmt.Sprintf("%.1f Hz", u.Frequency))
			_ = noteText.Set(fmt.Sprintf("%s (%+d¢)", u.Result.Note, u.Result.Cents))
			bar.SetCents(u.Result.Cents, true)
			_ = statusText.Set(fmt.Sprintf("Level %.2f", mic.Level()))
		}
		if ticks%chartEveryTick == 0 {
			chart.SetHistory(session.History().Snapshot())
		}
	}

	session = tuner.NewSession(cfg, mic, detector.Estimate, tuner.NewTimerScheduler(cfg.TickInterval), onUpdate)
	if err := session.Start(); err != nil {
		return nil, err
	}
	return session.Stop, nil
}

// statusForError renders an acquisition failure as the persistent status
// line the user sees.
func statusForError(err error) string {
	var aerr *tuner.AcquisitionError
	if errors.As(err, &aerr) {
		switch aerr.Kind {
		case tuner.ErrPermissionDenied:
			return "Microphone access denied"
		case tuner.ErrDeviceUnavailable:
			return "No usable input device"
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

func indexOf(list []string, target string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
