package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobeval/internal/evaluation"
	dErrors "jobeval/pkg/domain-errors"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EvaluateRequest is the HTTP request body for POST /v1/applications/evaluate.
type EvaluateRequest struct {
	// Applicant may be null; the evaluator rejects it as invalid_argument.
	Applicant         *ApplicantRequest `json:"applicant"`
	TechStack         []string          `json:"tech_stack" validate:"max=50,dive,max=64"`
	YearsOfExperience int               `json:"years_of_experience" validate:"min=0,max=80"`
}

// ApplicantRequest is the applicant portion of the request.
type ApplicantRequest struct {
	Age            int    `json:"age" validate:"min=0,max=150"`
	IdentityNumber string `json:"identity_number" validate:"max=64"`
}

// Validate checks size and range limits.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Applicant != nil {
		r.Applicant.IdentityNumber = strings.TrimSpace(r.Applicant.IdentityNumber)
	}
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

// ToApplication converts the request into the domain application.
func (r *EvaluateRequest) ToApplication() evaluation.JobApplication {
	app := evaluation.JobApplication{
		TechStackList:     r.TechStack,
		YearsOfExperience: r.YearsOfExperience,
	}
	if r.Applicant != nil {
		app.Applicant = &evaluation.Applicant{
			Age:            r.Applicant.Age,
			IdentityNumber: r.Applicant.IdentityNumber,
		}
	}
	return app
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var msg string
	switch fe.Tag() {
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			msg = fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		case reflect.String:
			msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			msg = fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return dErrors.New(dErrors.CodeValidation, msg)
}
