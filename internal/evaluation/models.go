package evaluation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobeval/internal/evaluation/ports"
)

// Applicant is the person behind a job application.
type Applicant struct {
	Age            int
	IdentityNumber string
}

// JobApplication is the unit of evaluation. Applicant is optional at the type
// level but required by Evaluate.
type JobApplication struct {
	Applicant         *Applicant
	TechStackList     []string
	YearsOfExperience int
}

// ApplicationResult is the categorical decision for an application.
type ApplicationResult int

const (
	AutoRejected ApplicationResult = iota
	TransferredToHR
	// TransferredToLead is reserved; Evaluate never returns it.
	TransferredToLead
	TransferredToCTO
	AutoAccepted
	TryAgain
)

var resultNames = map[ApplicationResult]string{
	AutoRejected:      "auto_rejected",
	TransferredToHR:   "transferred_to_hr",
	TransferredToLead: "transferred_to_lead",
	TransferredToCTO:  "transferred_to_cto",
	AutoAccepted:      "auto_accepted",
	TryAgain:          "try_again",
}

func (r ApplicationResult) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("application_result(%d)", int(r))
}

// ParseApplicationResult parses the string form produced by String.
func ParseApplicationResult(s string) (ApplicationResult, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for result, name := range resultNames {
		if name == s {
			return result, nil
		}
	}
	return 0, fmt.Errorf("unknown application result %q", s)
}

// Decision is what the service reports for one evaluation.
type Decision struct {
	ID             uuid.UUID
	Result         ApplicationResult
	ValidationMode ports.ValidationMode
	EvaluatedAt    time.Time
}
