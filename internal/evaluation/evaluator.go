package evaluation

import (
	"context"

	"jobeval/internal/evaluation/ports"
	dErrors "jobeval/pkg/domain-errors"
)

const (
	minAge                   = 18
	detailedValidationAge    = 50
	autoAcceptYearsOfExp     = 15
	rejectBelowMatchRate     = 25
	autoAcceptAboveMatchRate = 75

	// officeCountry is the only country whose applications are screened
	// automatically; everything else goes straight to the CTO.
	officeCountry = "Azerbaijan"
)

// Evaluator applies the application rules using an injected identity
// validator. It holds no state between calls other than what it writes to
// the validator's mode.
type Evaluator struct {
	identityValidator ports.IdentityValidator
	techStack         techStack
	formula           MatchRateFormula
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMatchRateFormula overrides how the tech-stack match rate is scaled.
func WithMatchRateFormula(f MatchRateFormula) Option {
	return func(e *Evaluator) {
		e.formula = f
	}
}

// NewEvaluator builds an evaluator. A nil validator is accepted; evaluations
// that get past the age check then fail with an internal error.
func NewEvaluator(identityValidator ports.IdentityValidator, opts ...Option) *Evaluator {
	e := &Evaluator{
		identityValidator: identityValidator,
		techStack:         newTechStack(defaultTechStack),
		formula:           TruncateThenScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate decides the outcome of a single application. Rules run in a fixed
// order and the first one that applies wins. The only error is
// CodeInvalidArgument for an application without an applicant.
func (e *Evaluator) Evaluate(ctx context.Context, form JobApplication) (ApplicationResult, error) {
	if form.Applicant == nil {
		return AutoRejected, dErrors.New(dErrors.CodeInvalidArgument, "application applicant is required")
	}

	if form.Applicant.Age < minAge {
		return AutoRejected, nil
	}

	if e.identityValidator == nil {
		return AutoRejected, dErrors.New(dErrors.CodeInternal, "identity validator is not configured")
	}

	// Both branches are Detailed. The younger branch was probably meant to be
	// Quick; kept as is until product confirms.
	if form.Applicant.Age > detailedValidationAge {
		e.identityValidator.SetValidationMode(ports.ValidationModeDetailed)
	} else {
		e.identityValidator.SetValidationMode(ports.ValidationModeDetailed)
	}

	if e.identityValidator.CountryDataProvider().CountryData().Country() != officeCountry {
		return TransferredToCTO, nil
	}

	if !e.identityValidator.IsValid(ctx, form.Applicant.IdentityNumber) {
		return TransferredToHR, nil
	}

	rate := e.techStack.similarityRate(form.TechStackList, e.formula)

	if rate < rejectBelowMatchRate {
		return AutoRejected, nil
	}

	if rate > autoAcceptAboveMatchRate && form.YearsOfExperience >= autoAcceptYearsOfExp {
		return AutoAccepted, nil
	}

	return TryAgain, nil
}
