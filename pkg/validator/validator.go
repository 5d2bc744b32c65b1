// Package validator registers the custom binding validations used by
// the request models.
package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var timeOfDayRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Register installs the custom validations on gin's binding engine.
// Call once at startup.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("timeofday", timeOfDay); err != nil {
		return err
	}
	return v.RegisterValidation("dateonly", dateOnly)
}

// timeofday accepts wall-clock times like "09:00" or "9:30".
func timeOfDay(fl validator.FieldLevel) bool {
	return timeOfDayRe.MatchString(fl.Field().String())
}

// dateonly accepts calendar dates in YYYY-MM-DD form.
func dateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
