package app

import (
	"errors"
	"log"
	"time"

	"github.com/fitmirror/fitmirror/internal/analyzer"
	"github.com/fitmirror/fitmirror/internal/capture"
	"github.com/fitmirror/fitmirror/internal/pose"
)

// ErrPipelineRunning is returned when a setting cannot change while the
// pipeline is active.
var ErrPipelineRunning = errors.New("analysis pipeline is running")

// runPipeline is the main loop that processes frames from the video source.
// It manages the transitions between idle and active modes based on motion
// detection.
//
// Pipeline logic:
// 1. Start in idle mode at the idle frame rate
// 2. On motion detected, switch to the active frame rate
// 3. Run pose detection and per-frame exercise analysis
// 4. Fan results out to subscribers
// 5. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	activeMode := false
	idleAfter := time.Duration(IdleTimeoutMs) * time.Millisecond

	frameInterval := time.Second / time.Duration(a.config.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if analysis is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.source.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrEndOfStream) {
					log.Println("Video stream ended")
					return
				}
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				if !activeMode {
					activeMode = true
					a.source.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && a.motion.Resting(idleAfter) {
				activeMode = false
				a.source.SetFPS(a.config.IdleFPS)
				frameInterval = time.Second / time.Duration(a.config.IdleFPS)
				ticker.Reset(frameInterval)
				log.Println("Switched to idle mode")
			}

			// Skip analysis while the subject is resting
			if !activeMode {
				frame.Close()
				continue
			}

			// Step 2: Pose detection
			a.mu.RLock()
			d := a.detector
			a.mu.RUnlock()
			if d == nil {
				frame.Close()
				continue
			}

			pf, err := d.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}

			// Step 3: Exercise analysis
			result := a.analyze(pf, time.Since(a.start).Seconds())
			a.publish(result)
		}
	}
}

// analyze stamps the frame with the session-relative timestamp and runs it
// through the analyzer.
func (a *App) analyze(pf *pose.Frame, elapsed float64) analyzer.FrameResult {
	if pf != nil {
		pf.Time = elapsed
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyzer.ProcessFrame(pf)
}
