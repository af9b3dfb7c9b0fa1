package schema

// Status is the workflow state of a submission. It is not stored in the
// record body: the filename prefix is the only place it lives.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// Statuses lists every recognized workflow state, in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusApproved,
	StatusInProgress,
	StatusCompleted,
	StatusRejected,
}

// ValidStatus reports whether s is one of the recognized workflow states.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

// OutputTypes are the accepted values for a submission's output_type field.
var OutputTypes = []string{
	"Database",
	"Framework Document",
	"Analysis Report",
	"Whitepaper",
	"Architecture Document",
	"Other",
}

// Releasabilities are the accepted values for the releasability field.
var Releasabilities = []string{"public", "cosmic-only"}

// FocusAreas are the accepted values for the focus_area field.
var FocusAreas = []string{
	"Research & Technology",
	"Demonstration Infrastructure",
	"Missions & Ecosystems",
	"Policy & Regulation",
	"Workforce Development",
}

// ValidationLimits defines the constraints for submission fields.
const (
	TitleMin          = 10
	TitleMax          = 100
	PurposeMin        = 10
	PurposeMax        = 1000
	DeliverableMin    = 10
	DeliverableMax    = 500
	ScopeMin          = 10
	ScopeMax          = 2000
	TargetAudienceMin = 1
	TargetAudienceMax = 500
	MilestonesMin     = 10
	MilestonesMax     = 2000
	EffortEstimateMin = 1
	EffortEstimateMax = 300
	NameMax           = 100
	EmailMax          = 100
	DependenciesMax   = 500
	SlugMaxLen        = 50

	// The submit form advertises a 2 week minimum while the legacy
	// validator accepted 1. Pending a product decision, the form's
	// value wins; change it here if that decision goes the other way.
	DurationWeeksMin = 2
	DurationWeeksMax = 12
)
