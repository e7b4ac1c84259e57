package jobs

import "time"

// BabelNetID is the target id that selects the BabelNet knowledge base
// instead of a dictionary.
const BabelNetID = "babelnet"

// StillWorking is the message of a linking job before its backend reports
// anything else.
const StillWorking = "Still working ..."

// LinkingState is the state of a linking job.
type LinkingState string

const (
	Processing LinkingState = "PROCESSING"
	Completed  LinkingState = "COMPLETED"
	Failed     LinkingState = "FAILED"
)

// IsTerminal is true for states that never change.
func (s LinkingState) IsTerminal() bool {
	return s == Completed || s == Failed
}

// LinkingSource is one side of a linking job.
type LinkingSource struct {
	// ID of a dictionary, or BabelNetID for the target.
	ID string `json:"id"`

	// Endpoint of the service holding the dictionary. Empty for local
	// dictionaries.
	Endpoint string `json:"endpoint,omitempty"`

	// Entries restricts linking to a subset of entries.
	Entries []string `json:"entries,omitempty"`

	APIKey string `json:"apiKey,omitempty"`
}

// IsRemote is true when the dictionary lives on another service.
func (s LinkingSource) IsRemote() bool {
	return s.Endpoint != ""
}

// LinkingStatus is reported by the status operation.
type LinkingStatus struct {
	State   LinkingState `json:"state"`
	Message string       `json:"message"`
}

// NewLinkingStatus returns the status of a job that just started.
func NewLinkingStatus() LinkingStatus {
	return LinkingStatus{State: Processing, Message: StillWorking}
}

// LinkType is the kind of a match between two senses.
type LinkType string

const (
	Exact    LinkType = "exact"
	Broader  LinkType = "broader"
	Narrower LinkType = "narrower"
	Related  LinkType = "related"
)

// IsValid checks if the link type is known.
func (t LinkType) IsValid() bool {
	switch t {
	case Exact, Broader, Narrower, Related:
		return true
	}
	return false
}

// SenseLink is a scored match between two senses.
type SenseLink struct {
	SourceSense string   `json:"source_sense"`
	TargetSense string   `json:"target_sense"`
	Type        LinkType `json:"type"`
	Score       float64  `json:"score"`
}

// LinkResult groups sense matches of a pair of entries.
type LinkResult struct {
	SourceEntry string      `json:"source_entry"`
	TargetEntry string      `json:"target_entry"`
	Linking     []SenseLink `json:"linking"`
}

// LinkingJob is a request to match senses of two sets of entries.
type LinkingJob struct {
	ID string `json:"id"`

	State   LinkingState `json:"state"`
	Message string       `json:"message"`

	Source LinkingSource  `json:"source"`
	Target LinkingSource  `json:"target"`
	Config map[string]any `json:"config,omitempty"`

	// ServiceURL is the backend that performs the linking.
	ServiceURL string `json:"service_url,omitempty"`

	// RemoteTaskID is the task id given by a REST backend.
	RemoteTaskID string `json:"remote_task_id,omitempty"`

	// OurResult refers to local entry ids.
	OurResult []LinkResult `json:"our_result"`

	// OriginResult refers to remote entry ids when at least one side was
	// mirrored from another service.
	OriginResult []LinkResult `json:"origin_result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultLinkingConfig is sent to backends when a job has no config.
func DefaultLinkingConfig() map[string]any {
	return map[string]any{"foo": "ontolex-default"}
}

// Status returns the current status of the job.
func (j *LinkingJob) Status() LinkingStatus {
	res := LinkingStatus{State: j.State, Message: j.Message}
	if res.State == "" {
		res.State = Processing
	}
	if res.Message == "" && res.State == Processing {
		res.Message = StillWorking
	}
	return res
}

// Result returns results with origin ids if there are any, otherwise
// results with local ids. It never returns nil.
func (j *LinkingJob) Result() []LinkResult {
	if j.OriginResult != nil {
		return j.OriginResult
	}
	if j.OurResult != nil {
		return j.OurResult
	}
	return []LinkResult{}
}

// Validate checks the job submitted by a client.
func (j *LinkingJob) Validate() error {
	if j.Source.ID == "" || j.Target.ID == "" {
		return InvalidJobError(j.ID, "need source and target ids")
	}
	if j.Source.ID == BabelNetID {
		return InvalidJobError(j.ID, "source cannot be "+BabelNetID)
	}
	return nil
}
