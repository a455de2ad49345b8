package api

import (
	"net/http"

	"github.com/fitmirror/fitmirror/internal/analyzer"
)

// ExerciseHandler serves the catalog of supported exercises.
type ExerciseHandler struct{}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler() *ExerciseHandler {
	return &ExerciseHandler{}
}

type exerciseResponse struct {
	Exercise string `json:"exercise"`
	Name     string `json:"name"`

	// Phases lists the two motion phases in count order.
	Phases          [2]string  `json:"phases"`
	IdealRepsPerMin [2]float64 `json:"ideal_reps_per_min"`
}

type listExercisesResponse struct {
	Exercises []exerciseResponse `json:"exercises"`
}

// ServeHTTP handles GET /api/exercises.
func (h *ExerciseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := listExercisesResponse{}
	for _, name := range analyzer.SupportedExercises() {
		p, err := analyzer.ProfileFor(name)
		if err != nil {
			continue
		}
		response.Exercises = append(response.Exercises, exerciseResponse{
			Exercise:        name,
			Name:            p.Name,
			Phases:          [2]string{p.PhaseA, p.PhaseB},
			IdealRepsPerMin: p.IdealRepsPerMin,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
