package model

import "time"

type StepName string

const STEP_PROFILE_NAVIGATION StepName = "profile_navigation"
const STEP_MESSAGING_INTERFACE StepName = "messaging_interface"
const STEP_MESSAGE_COMPOSITION StepName = "message_composition"
const STEP_MESSAGE_DELIVERY StepName = "message_delivery"
const STEP_CONNECTION_STATUS_CHECK StepName = "connection_status_check"
const STEP_CONNECT_BUTTON_CLICK StepName = "connect_button_click"
const STEP_MESSAGE_ADDITION StepName = "message_addition"
const STEP_REQUEST_SUBMISSION StepName = "request_submission"
const STEP_POST_INTERFACE_NAVIGATION StepName = "post_interface_navigation"
const STEP_CONTENT_COMPOSITION StepName = "content_composition"
const STEP_MEDIA_ATTACHMENT StepName = "media_attachment"
const STEP_CONTENT_REVIEW StepName = "content_review"
const STEP_POST_PUBLICATION StepName = "post_publication"

type StepStatus string

const STEP_COMPLETED StepStatus = "completed"
const STEP_CONFIRMED StepStatus = "confirmed"
const STEP_SKIPPED StepStatus = "skipped"
const STEP_FAILED StepStatus = "failed"

// WorkflowStep is appended to a workflow result as the workflow
// progresses. The step list is append only and order stable.
type WorkflowStep struct {
	Step   StepName   `json:"step"`
	Status StepStatus `json:"status"`
}

// WorkflowResult is implemented by the per-workflow result types so a
// batch can collect heterogeneous results.
type WorkflowResult interface {
	GetWorkflowId() string
	GetSteps() []WorkflowStep
}

type MessagingResult struct {
	WorkflowId         string         `json:"workflowId"`
	Steps              []WorkflowStep `json:"steps"`
	MessageId          string         `json:"messageId"`
	DeliveryStatus     string         `json:"deliveryStatus"`
	RecipientProfileId string         `json:"recipientProfileId"`
	MessageLength      int            `json:"messageLength"`
	StartedAt          time.Time      `json:"startedAt"`
	CompletedAt        time.Time      `json:"completedAt"`
}

func (r *MessagingResult) GetWorkflowId() string    { return r.WorkflowId }
func (r *MessagingResult) GetSteps() []WorkflowStep { return r.Steps }

type ConnectionResult struct {
	WorkflowId       string         `json:"workflowId"`
	Steps            []WorkflowStep `json:"steps"`
	ConnectionStatus string         `json:"connectionStatus"`
	ProfileId        string         `json:"profileId"`
	NoteLength       int            `json:"noteLength"`
	StartedAt        time.Time      `json:"startedAt"`
	CompletedAt      time.Time      `json:"completedAt"`
}

func (r *ConnectionResult) GetWorkflowId() string    { return r.WorkflowId }
func (r *ConnectionResult) GetSteps() []WorkflowStep { return r.Steps }

type PostResult struct {
	WorkflowId    string         `json:"workflowId"`
	Steps         []WorkflowStep `json:"steps"`
	PublishStatus string         `json:"publishStatus"`
	PostURL       string         `json:"postUrl"`
	ContentLength int            `json:"contentLength"`
	MediaCount    int            `json:"mediaCount"`
	StartedAt     time.Time      `json:"startedAt"`
	CompletedAt   time.Time      `json:"completedAt"`
}

func (r *PostResult) GetWorkflowId() string    { return r.WorkflowId }
func (r *PostResult) GetSteps() []WorkflowStep { return r.Steps }

// WorkflowStatistics is the aggregate view returned by the caller
// facing statistics operation.
type WorkflowStatistics struct {
	TotalActions            int                 `json:"totalActions"`
	ActionsLastHour         int                 `json:"actionsLastHour"`
	AverageActionIntervalMs float64             `json:"averageActionIntervalMs"`
	WorkflowsCompleted      map[string]int      `json:"workflowsCompleted"`
	Assessment              SuspicionAssessment `json:"assessment"`
}
