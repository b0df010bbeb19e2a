package domain

import "time"

// Counts holds the collection cardinalities at the time of the call.
type Counts struct {
	Articles int
	Projects int
	Domains  int
}

// Stats is the aggregate summary served to the dashboard.
type Stats struct {
	TotalArticles int `json:"totalArticles"`
	TotalProjects int `json:"totalProjects"`
	TotalDomains  int `json:"totalDomains"`
	HoursLearned  int `json:"hoursLearned"`
}

type Entity string

const (
	EntityDomain  Entity = "domain"
	EntityArticle Entity = "article"
	EntityProject Entity = "project"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ChangeEvent describes a committed mutation. Payload is nil for deletes.
type ChangeEvent struct {
	Action    Action
	Entity    Entity
	ID        string
	Payload   any
	Timestamp time.Time
}
