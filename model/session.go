package model

type HumanBehaviorStatus struct {
	Stats      ActivityStats       `json:"stats"`
	Assessment SuspicionAssessment `json:"assessment"`
}

type SessionStatus struct {
	IsActive        bool                `json:"isActive"`
	IsHealthy       bool                `json:"isHealthy"`
	IsAuthenticated bool                `json:"isAuthenticated"`
	HumanBehavior   HumanBehaviorStatus `json:"humanBehavior"`
}
