package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

const (
	DefaultInputSize          = 224
	DefaultDetectionThreshold = 0.5

	minInputSize = 64
	maxInputSize = 1024
)

type Camera struct {
	Title    string `json:"title" validate:"empty=false"`
	DeviceID int    `json:"device_id"`
	Address  string `json:"address"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FPS      int    `json:"fps" validate:"gte=1 & lte=60"`
	Mock     bool   `json:"mock"`
	Disabled bool   `json:"disabled"`
}

// Display is the screen results are shown on; a portrait display turns
// frames a quarter clockwise before detection.
type Display struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Presenter struct {
	Window      bool   `json:"window"`
	HTTPAddress string `json:"http_address"`
}

type ScoreLog struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type Values struct {
	Debug              bool      `json:"debug"`
	ModelPath          string    `json:"model_path"`
	BundledModelPath   string    `json:"bundled_model_path"`
	ONNXRuntimeLibrary string    `json:"onnxruntime_library"`
	InputSize          int       `json:"input_size"`
	DetectionThreshold float64   `json:"detection_threshold"`
	SwapUV             bool      `json:"swap_uv"`
	Display            Display   `json:"display"`
	Cameras            []Camera  `json:"cameras"`
	Presenter          Presenter `json:"presenter"`
	ScoreLog           ScoreLog  `json:"score_log"`
}

// RunValidate checks field tags and then the cross field rules in Validate.
func (v *Values) RunValidate() error {
	return validate.Validate(v)
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupCameraTitles(v.Cameras) {
		return fmt.Errorf(validationErrorHeader, errors.New("camera titles must be unique"))
	}
	if v.InputSize != 0 && (v.InputSize < minInputSize || v.InputSize > maxInputSize) {
		return fmt.Errorf(validationErrorHeader,
			fmt.Errorf("input size must be between %d and %d", minInputSize, maxInputSize))
	}
	if v.DetectionThreshold < 0 || v.DetectionThreshold > 1 {
		return fmt.Errorf(validationErrorHeader, errors.New("detection threshold must be between 0 and 1"))
	}
	if v.Display.Width < 0 || v.Display.Height < 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("display dimensions cannot be negative"))
	}
	return nil
}

// ApplyDefaults fills in settings left unset in the config file.
func (v *Values) ApplyDefaults() {
	if v.InputSize == 0 {
		v.InputSize = DefaultInputSize
	}
	if v.DetectionThreshold == 0 {
		v.DetectionThreshold = DefaultDetectionThreshold
	}
}

func hasDupCameraTitles(cameras []Camera) (hasDup bool) {
	hasDup = false
	if len(cameras) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(cameras))
	for _, cam := range cameras {
		if _, ok := seen[cam.Title]; ok {
			hasDup = true
			return
		}
		seen[cam.Title] = struct{}{}
	}
	return
}
