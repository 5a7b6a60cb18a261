package observability

import (
	"log/slog"

	"github.com/aretw0/enigma/pkg/domain"
)

// LogHooks returns hooks that trace every step and character at debug level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStep: func(e *domain.StepEvent) {
			logger.Debug("rotor_step",
				"index", e.Index,
				"rotor_id", e.RotorID,
				"position", string(e.Position),
				"carry", e.Carry,
			)
		},
		OnEncrypt: func(e *domain.EncryptEvent) {
			if e.Dropped {
				logger.Debug("char_dropped", "input", string(e.Input))
				return
			}
			logger.Debug("char_encrypted", "input", string(e.Input), "output", string(e.Output))
		},
	}
}
