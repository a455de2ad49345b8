// Command fitmirror-analyze runs the exercise analyzer over a recorded
// landmark file and prints the session summary as JSON.
//
// The input is a JSON array of landmark frames, one per video frame, as
// produced by the pose detector. Use "-" to read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fitmirror/fitmirror/internal/analyzer"
	"github.com/fitmirror/fitmirror/internal/pose"
)

func main() {
	exercise := flag.String("exercise", "squat",
		"exercise to analyze ("+strings.Join(analyzer.SupportedExercises(), ", ")+")")
	perFrame := flag.Bool("frames", false, "print per-frame results as JSON lines")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <frames.json|->\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	frames, err := readFrames(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read frames: %v", err)
	}

	a, err := analyzer.New(*exercise)
	if err != nil {
		log.Fatalf("Failed to create analyzer: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, f := range frames {
		result := a.ProcessFrame(f)
		if *perFrame {
			if err := enc.Encode(result); err != nil {
				log.Fatalf("Failed to encode result: %v", err)
			}
		}
	}

	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Summary()); err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
}

func readFrames(path string) ([]*pose.Frame, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var frames []*pose.Frame
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return frames, nil
}
