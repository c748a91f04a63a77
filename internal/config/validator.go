package config

import (
	"os"
	"strings"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for directory path existence (basic check)
	_ = validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		dirPath := fl.Field().String()
		if dirPath == "" {
			return true // Optional field
		}
		info, err := os.Stat(dirPath)
		if os.IsNotExist(err) {
			return false
		}
		return err == nil && info.IsDir()
	})

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		return common.WrapError(err, "global config validation failed")
	}

	if err := validateCeilingOrdering(cfg.ReconcilerConfig); err != nil {
		return err
	}

	return nil
}

// validateCeilingOrdering enforces the relationship the retraction logic
// relies on: the move ceiling must not undercut the rename ceiling.
func validateCeilingOrdering(rc ReconcilerConfig) error {
	if rc.MoveRateCeiling < rc.RenameRateCeiling {
		return common.NewConfigurationError("reconciler_config", "move_rate_ceiling",
			"move ceiling must be >= rename ceiling")
	}
	return nil
}
