package schema

import "time"

// Submission is the record describing one proposed microproduct.
// The YAML form of this struct is what gets persisted in the store,
// one file per submission.
type Submission struct {
	Title          string       `yaml:"title" json:"title"`
	Purpose        string       `yaml:"purpose" json:"purpose"`
	Deliverable    string       `yaml:"deliverable" json:"deliverable"`
	OutputType     string       `yaml:"output_type" json:"output_type"`
	Scope          string       `yaml:"scope" json:"scope"`
	TargetAudience string       `yaml:"target_audience" json:"target_audience"`
	Releasability  string       `yaml:"releasability" json:"releasability"`
	DurationWeeks  int          `yaml:"duration_weeks" json:"duration_weeks"`
	Milestones     string       `yaml:"milestones" json:"milestones"`
	EffortEstimate string       `yaml:"effort_estimate" json:"effort_estimate"`
	LeadName       string       `yaml:"lead_name" json:"lead_name"`
	LeadEmail      string       `yaml:"lead_email" json:"lead_email"`
	TeamMembers    []TeamMember `yaml:"team_members" json:"team_members"`
	FocusArea      string       `yaml:"focus_area" json:"focus_area"`
	Dependencies   string       `yaml:"dependencies" json:"dependencies"`
	SubmittedDate  time.Time    `yaml:"submitted_date" json:"submitted_date"`
}

// TeamMember is one entry in a submission's team list. JoinedDate is
// stamped server-side when someone joins; members listed at submission
// time have no joined date.
type TeamMember struct {
	Name       string `yaml:"name" json:"name"`
	Email      string `yaml:"email" json:"email"`
	JoinedDate string `yaml:"joined_date,omitempty" json:"joined_date,omitempty"`
}
