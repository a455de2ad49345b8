// Package app provides the main application logic for the FitMirror
// exercise analysis system.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/fitmirror/fitmirror/internal/analyzer"
	"github.com/fitmirror/fitmirror/internal/capture"
	"github.com/fitmirror/fitmirror/internal/detector"
	"github.com/fitmirror/fitmirror/internal/server/api"
	"github.com/fitmirror/fitmirror/internal/store"
)

// Pipeline timing constants.
const (
	// DefaultIdleFPS is the frame rate while the subject rests between sets.
	DefaultIdleFPS = 2
	// DefaultActiveFPS is the frame rate during active analysis.
	DefaultActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without motion before
	// dropping back to the idle frame rate.
	IdleTimeoutMs = 2000
	// subscriberBuffer is the per-subscriber result channel capacity. Slow
	// consumers lose frames rather than stalling the pipeline.
	subscriberBuffer = 16
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Source   capture.Source
	Exercise string

	ActiveFPS       int
	IdleFPS         int
	MotionThreshold float64

	ModelComplexity int
	MinConfidence   float64
}

// App owns the capture, detection, and analysis pipeline and fans per-frame
// results out to subscribers.
type App struct {
	config   Config
	source   capture.Source
	motion   *capture.MotionDetector
	detector detector.Detector
	analyzer *analyzer.Analyzer

	mu          sync.RWMutex
	enabled     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	start       time.Time
	subscribers map[chan analyzer.FrameResult]struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	motionThreshold := config.MotionThreshold
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	an, err := analyzer.New(config.Exercise)
	if err != nil {
		return nil, err
	}

	source := config.Source
	if source == nil {
		source = capture.NewCamera(0)
	}

	a := &App{
		config:      config,
		source:      source,
		motion:      capture.NewMotionDetector(motionThreshold),
		analyzer:    an,
		subscribers: make(map[chan analyzer.FrameResult]struct{}),
	}

	dcfg := detector.DefaultConfig()
	dcfg.ModelComplexity = config.ModelComplexity
	if config.MinConfidence > 0 {
		dcfg.MinConfidence = config.MinConfidence
		dcfg.MinTrackingConf = config.MinConfidence
	}

	// Try MediaPipe first, fall back to the mock detector
	if mp, err := detector.NewMediaPipeDetector(dcfg); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled enables or disables frame analysis.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame analysis is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetExercise switches the analyzed exercise. It fails while the pipeline
// is running or when the exercise is unknown.
func (a *App) SetExercise(exercise string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return ErrPipelineRunning
	}

	an, err := analyzer.New(exercise)
	if err != nil {
		return err
	}
	a.analyzer = an
	a.config.Exercise = exercise
	return nil
}

// Subscribe registers a consumer of per-frame analysis results. The
// returned cancel function must be called when the consumer is done.
func (a *App) Subscribe() (<-chan analyzer.FrameResult, func()) {
	ch := make(chan analyzer.FrameResult, subscriberBuffer)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}

// publish fans a result out to all subscribers without blocking the
// pipeline. A subscriber with a full buffer misses the frame.
func (a *App) publish(result analyzer.FrameResult) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for ch := range a.subscribers {
		select {
		case ch <- result:
		default:
		}
	}
}

// Start begins the analysis pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.source.Open(); err != nil {
		return err
	}

	// Start at the idle frame rate until motion wakes the pipeline
	a.source.SetFPS(a.config.IdleFPS)

	a.start = time.Now()
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Analysis pipeline started")
	return nil
}

// Stop halts the pipeline, persists the finished session, and releases
// resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	done := a.doneCh
	a.doneCh = nil
	a.mu.Unlock()

	// Wait for the pipeline goroutine to drain before tearing down.
	if done != nil {
		<-done
	}

	a.finishSession()

	if err := a.source.Close(); err != nil {
		log.Printf("Error closing video source: %v", err)
	}
	a.motion.Close()

	a.mu.RLock()
	d := a.detector
	a.mu.RUnlock()
	if d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Analysis pipeline stopped")
}

// finishSession persists the session summary when any reps were counted
// and resets the analyzer for the next run.
func (a *App) finishSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	sum := a.analyzer.Summary()
	if fresh, err := analyzer.New(a.config.Exercise); err == nil {
		a.analyzer = fresh
	}
	a.motion.Reset()

	if a.config.Store == nil || sum.Reps == 0 {
		return
	}

	if err := a.config.Store.Sessions().Create(api.SessionFromSummary(sum)); err != nil {
		log.Printf("Error saving session: %v", err)
		return
	}
	log.Printf("Saved %s session: %d reps, overall score %.1f",
		sum.Exercise, sum.Reps, sum.Quality.Overall)
}

// Summary returns the running session's aggregate results so far.
func (a *App) Summary() analyzer.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.analyzer.Summary()
}

// Source returns the video source instance.
func (a *App) Source() capture.Source {
	return a.source
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
