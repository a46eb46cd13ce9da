package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
)

var (
	teamNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	personNamePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
)

// registerAllocationValidations adds the weekday, daypair, teamname and personname tags.
func registerAllocationValidations(v *validator.Validate) {
	_ = v.RegisterValidation("teamname", func(fl validator.FieldLevel) bool {
		return teamNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := models.ParseWeekday(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("daypair", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDayPair(fl.Field().String())
		return err == nil
	})
}

// validationError turns validator output into a VALIDATION_ERROR naming the failing fields.
func validationError(err error, message string) *appErrors.Error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		message = message + ": " + strings.Join(parts, ", ")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func internalError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
