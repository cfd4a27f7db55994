package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by the command line when neither a flag nor the config
// file sets a value.
const (
	DefaultFPS       = 30
	DefaultLogFormat = "json"
	DefaultLogLevel  = "info"
)

var validate = validator.New()

// GraphSource names one document to open. A path that is a directory opens
// every graph document below it and ignores Name.
type GraphSource struct {
	Name string `validate:"excludesall=/\\"`
	Path string `validate:"required"`
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Graphs []GraphSource `validate:"dive"`

	// Listen is the address of the editor endpoint. Empty runs headless.
	Listen    string `validate:"omitempty,hostname_port"`
	FPS       int    `validate:"min=1,max=240"`
	MaxFrames int    `validate:"min=0"`
	Autosave  bool

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"min=0,max=65535"`

	// Watch switches the app into a client printing the frames served at
	// this URL.
	Watch string `validate:"omitempty,url"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, formatValidationError(err)
	}
	if len(cfg.Graphs) == 0 && cfg.Watch == "" {
		return nil, errors.New("at least one graph path is required")
	}
	return &cfg, nil
}

func formatValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a host:port address", field)
	case "url":
		return fmt.Sprintf("%s must be a URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
