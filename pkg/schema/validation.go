package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a single user-correctable validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors collects every rule violation found in one payload.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateSubmission checks a submission payload against the full rule
// table. It returns nil when the payload is clean, otherwise a
// FieldErrors listing every violation (not just the first).
func ValidateSubmission(s *Submission) error {
	var errs FieldErrors

	errs = checkLength(errs, "title", s.Title, TitleMin, TitleMax)
	errs = checkLength(errs, "purpose", s.Purpose, PurposeMin, PurposeMax)
	errs = checkLength(errs, "deliverable", s.Deliverable, DeliverableMin, DeliverableMax)
	errs = checkEnum(errs, "output_type", s.OutputType, OutputTypes)
	errs = checkLength(errs, "scope", s.Scope, ScopeMin, ScopeMax)
	errs = checkLength(errs, "target_audience", s.TargetAudience, TargetAudienceMin, TargetAudienceMax)
	errs = checkEnum(errs, "releasability", s.Releasability, Releasabilities)

	if s.DurationWeeks < DurationWeeksMin || s.DurationWeeks > DurationWeeksMax {
		errs = append(errs, FieldError{
			Field:   "duration_weeks",
			Message: fmt.Sprintf("duration_weeks must be between %d and %d", DurationWeeksMin, DurationWeeksMax),
		})
	}

	errs = checkLength(errs, "milestones", s.Milestones, MilestonesMin, MilestonesMax)
	errs = checkLength(errs, "effort_estimate", s.EffortEstimate, EffortEstimateMin, EffortEstimateMax)
	errs = checkLength(errs, "lead_name", s.LeadName, 1, NameMax)

	if !emailPattern.MatchString(s.LeadEmail) || len(s.LeadEmail) > EmailMax {
		errs = append(errs, FieldError{Field: "lead_email", Message: "valid email is required"})
	}

	for i, m := range s.TeamMembers {
		if m.Name == "" || len(m.Name) > NameMax {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("team_members[%d].name", i),
				Message: fmt.Sprintf("name must be 1-%d characters", NameMax),
			})
		}
		if m.Email != "" && (!emailPattern.MatchString(m.Email) || len(m.Email) > EmailMax) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("team_members[%d].email", i),
				Message: "email must be a valid address",
			})
		}
	}

	errs = checkEnum(errs, "focus_area", s.FocusArea, FocusAreas)

	if len(s.Dependencies) > DependenciesMax {
		errs = append(errs, FieldError{
			Field:   "dependencies",
			Message: fmt.Sprintf("dependencies must be at most %d characters", DependenciesMax),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateJoin checks a join payload: filename and name are required,
// email is optional but must be a valid address when present.
func ValidateJoin(filename, name, email string) error {
	var errs FieldErrors
	if filename == "" {
		errs = append(errs, FieldError{Field: "filename", Message: "filename is required"})
	}
	if name == "" || len(name) > NameMax {
		errs = append(errs, FieldError{Field: "name", Message: fmt.Sprintf("name must be 1-%d characters", NameMax)})
	}
	if email != "" && (!emailPattern.MatchString(email) || len(email) > EmailMax) {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateStatusChange checks a status-change payload before any store
// traffic happens.
func ValidateStatusChange(filename, newStatus string) error {
	var errs FieldErrors
	if filename == "" {
		errs = append(errs, FieldError{Field: "filename", Message: "filename is required"})
	}
	if !ValidStatus(newStatus) {
		errs = append(errs, FieldError{
			Field:   "newStatus",
			Message: fmt.Sprintf("invalid status, must be one of: %s", statusList()),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkLength(errs FieldErrors, field, value string, min, max int) FieldErrors {
	if len(value) < min || len(value) > max {
		return append(errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be %d-%d characters", field, min, max),
		})
	}
	return errs
}

func checkEnum(errs FieldErrors, field, value string, allowed []string) FieldErrors {
	for _, a := range allowed {
		if value == a {
			return errs
		}
	}
	return append(errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
	})
}

func statusList() string {
	ss := make([]string, len(Statuses))
	for i, s := range Statuses {
		ss[i] = string(s)
	}
	return strings.Join(ss, ", ")
}
