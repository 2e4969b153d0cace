package model

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ConversationTurn is one entry of the in-memory chat history. The history
// sequence is owned by the caller; orchestrators only read it and return the
// new assistant turn as plain text.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ReasoningMode selects the model tier for a chat request. It is supplied per
// request and never persisted.
type ReasoningMode string

const (
	ReasoningFast ReasoningMode = "fast"
	ReasoningDeep ReasoningMode = "deep"
)

// ParseReasoningMode normalises the provided value; unknown values fall back
// to the fast tier.
func ParseReasoningMode(v string) ReasoningMode {
	if ReasoningMode(v) == ReasoningDeep {
		return ReasoningDeep
	}
	return ReasoningFast
}

// DeviceCategory classifies a simulated device.
type DeviceCategory string

const (
	CategoryLight      DeviceCategory = "light"
	CategoryThermostat DeviceCategory = "thermostat"
	CategoryLock       DeviceCategory = "lock"
	CategoryComputer   DeviceCategory = "computer"
)

// DeviceStatus is the operational state of a device. Which statuses are legal
// depends on the category: locks are locked/unlocked, everything else on/off.
type DeviceStatus string

const (
	StatusOn       DeviceStatus = "on"
	StatusOff      DeviceStatus = "off"
	StatusLocked   DeviceStatus = "locked"
	StatusUnlocked DeviceStatus = "unlocked"
)

// LegalStatus reports whether status is valid for the given category.
func LegalStatus(category DeviceCategory, status DeviceStatus) bool {
	switch category {
	case CategoryLock:
		return status == StatusLocked || status == StatusUnlocked
	default:
		return status == StatusOn || status == StatusOff
	}
}

// Device is one entry of the simulated device registry. ID is stable and
// unique. Value holds a number or string depending on the category, e.g.
// brightness or temperature.
type Device struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Category DeviceCategory `json:"category" yaml:"category"`
	Status   DeviceStatus   `json:"status" yaml:"status"`
	Value    any            `json:"value,omitempty" yaml:"value,omitempty"`
	Location string         `json:"location" yaml:"location"`
}

// DeviceDiff is a partial update for a single device. Nil fields are left
// unchanged when the diff is applied.
type DeviceDiff struct {
	DeviceID string        `json:"device_id"`
	Status   *DeviceStatus `json:"status,omitempty"`
	Value    any           `json:"value,omitempty"`
}

// DeviceAction is the action field of an interpreted device command.
type DeviceAction string

const (
	ActionTurnOn   DeviceAction = "turn_on"
	ActionTurnOff  DeviceAction = "turn_off"
	ActionLock     DeviceAction = "lock"
	ActionUnlock   DeviceAction = "unlock"
	ActionSetValue DeviceAction = "set_value"
)

// DeviceIntent is the structured result of interpreting a free-form device
// utterance. Transient: consumed immediately, never persisted.
type DeviceIntent struct {
	TargetNameQuery string
	Action          DeviceAction
	Value           *float64
}

// PayloadKind tags an ImagePayload as binary image data or explanatory text.
type PayloadKind string

const (
	PayloadBinary PayloadKind = "binary"
	PayloadText   PayloadKind = "text"
)

// ImagePayload is the tagged union returned by image create/edit calls. The
// underlying service may answer an edit request with either a new image or a
// textual analysis; callers must branch on Kind and never assume binary.
type ImagePayload struct {
	Kind PayloadKind
	MIME string
	Data []byte
	Text string
}

// JobState is the lifecycle state of an asynchronous video generation job.
// Transitions only move forward; a job never re-enters pending.
type JobState string

const (
	JobPending JobState = "pending"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// Terminal reports whether no further transition can occur from s.
func (s JobState) Terminal() bool {
	return s == JobDone || s == JobFailed
}
