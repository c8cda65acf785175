package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/planilla-hr/planilla-api/internal/models"
)

func init() {
	registerValidators()
}

// registerValidators installs the custom binding validations used by the
// edit payloads. Day-code edits must name a known code: unlike imports,
// the API has no reason to silently normalize a typo to NL.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("daycode", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		return models.ParseDayCode(raw) == models.DayCode(raw)
	})
	_ = v.RegisterValidation("pensionplan", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		return raw == string(models.PensionNone) || models.ParsePensionPlan(raw) != models.PensionNone
	})
}
