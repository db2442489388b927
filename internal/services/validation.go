package services

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide validator with the domain rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterStructValidation(questionAnswerInOptions, types.Question{})
		validate = v
	})
	return validate
}

func questionAnswerInOptions(sl validator.StructLevel) {
	q := sl.Current().Interface().(types.Question)
	if q.CorrectAnswer == "" {
		return
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return
		}
	}
	sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "oneofoptions", "")
}

// describeValidation turns the first validator failure into a short sentence.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return "Please enter a valid email"
	case "len":
		return fmt.Sprintf("%s must have exactly %s items", fe.Namespace(), fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", fe.Namespace())
	case "oneofoptions":
		return fmt.Sprintf("%s must be one of the options", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

func validationError(err error) *apierr.Error {
	return &apierr.Error{
		Status:  http.StatusBadRequest,
		Code:    "validation_failed",
		Message: describeValidation(err),
		Err:     err,
	}
}
