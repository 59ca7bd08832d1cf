package domain

import (
	"time"

	"tsquality/internal/analysis"
)

// AnalysisParams are the user-tunable knobs of one analysis run
type AnalysisParams struct {
	Column        string  `json:"column" validate:"omitempty,max=256"`
	IQRMultiplier float64 `json:"iqr_multiplier" validate:"gte=1,lte=3"`
	JumpThreshold float64 `json:"jump_threshold" validate:"gte=0.05,lte=0.5"`
	MAWindow      int     `json:"ma_window" validate:"gte=5,lte=100"`
	TrendBaseline string  `json:"trend_baseline" validate:"oneof=downward none"`
}

// ParamRange describes a numeric parameter domain
type ParamRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// ParamChoice describes an enumerated parameter domain
type ParamChoice struct {
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// AnalysisDefaults is the configuration surface offered to clients
type AnalysisDefaults struct {
	IQRMultiplier     ParamRange  `json:"iqr_multiplier"`
	JumpThreshold     ParamRange  `json:"jump_threshold"`
	MAWindow          ParamRange  `json:"ma_window"`
	TrendBaseline     ParamChoice `json:"trend_baseline"`
	AllowedExtensions []string    `json:"allowed_extensions"`
	MaxUploadBytes    int64       `json:"max_upload_bytes"`
}

// ValidationResult is the (ok, message) outcome of structural validation
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// CheckError records a check that could not run on the selected column
type CheckError struct {
	Check   string `json:"check"`
	Column  string `json:"column"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AnalysisReport is the full outcome of one analysis run. Each check is
// recorded independently; a check that failed leaves its field empty and
// adds an entry to Errors.
type AnalysisReport struct {
	ID          string            `json:"id"`
	FileName    string            `json:"file_name,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Params      AnalysisParams    `json:"params"`
	Validation  ValidationResult  `json:"validation"`
	Overview    analysis.Overview `json:"overview"`

	Missing      analysis.MissingReport `json:"missing"`
	Duplicates   analysis.Result        `json:"duplicates"`
	Outliers     analysis.Result        `json:"outliers"`
	Jumps        analysis.Result        `json:"jumps"`
	Consistency  *analysis.Consistency  `json:"consistency,omitempty"`
	Distribution *analysis.Distribution `json:"distribution,omitempty"`
	Trends       *analysis.TrendTable   `json:"trends,omitempty"`

	Errors []CheckError `json:"errors,omitempty"`
}

// HasErrors reports whether any check failed
func (r *AnalysisReport) HasErrors() bool {
	return len(r.Errors) > 0
}
