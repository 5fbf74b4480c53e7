package server

import "math"

// ParseRequest is the body of POST /equation/parse.
type ParseRequest struct {
	Latex string `json:"latex"`
}

// ParseResponse reports whether an equation compiled.
type ParseResponse struct {
	Valid        bool   `json:"valid"`
	Canonical    string `json:"canonical,omitempty"`
	Pretty       string `json:"pretty,omitempty"`
	Error        string `json:"error,omitempty"`
	Reason       string `json:"reason,omitempty"`
	LatexCleaned string `json:"latex_cleaned"`
}

// SampleRequest is the body of POST /equation/sample. Omitted fields
// fall back to the configured sampling defaults.
type SampleRequest struct {
	Latex     string   `json:"latex"`
	XMin      *float64 `json:"x_min,omitempty"`
	XMax      *float64 `json:"x_max,omitempty"`
	YMin      *float64 `json:"y_min,omitempty"`
	YMax      *float64 `json:"y_max,omitempty"`
	NumPoints *int     `json:"num_points,omitempty"`
}

// SampleResponse carries a sampled series. NaN samples are encoded as null.
type SampleResponse struct {
	Canonical string     `json:"canonical"`
	X         []float64  `json:"x"`
	Y         []*float64 `json:"y"`
	YMin      float64    `json:"y_min"`
	YMax      float64    `json:"y_max"`
	Finite    int        `json:"finite"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// HistoryEntry is one row of GET /equation/history.
type HistoryEntry struct {
	ID        string `json:"id"`
	Latex     string `json:"latex"`
	Canonical string `json:"canonical,omitempty"`
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// nullable maps NaN to nil so encoding/json emits null.
func nullable(ys []float64) []*float64 {
	out := make([]*float64, len(ys))
	for i := range ys {
		if math.IsNaN(ys[i]) {
			continue
		}
		out[i] = &ys[i]
	}
	return out
}
