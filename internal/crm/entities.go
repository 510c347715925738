// ABOUTME: Entity types, enums, and transition policy for the CRM data layer
// ABOUTME: Defines Client, Lead, Task structs and the stage/status vocabularies

package crm

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// FilterAll is the sentinel filter value that matches every entity.
const FilterAll = "all"

// ClientStatus is the lifecycle state of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Valid reports whether s is a known client status.
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

// Stage is the pipeline position of a lead.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageProposal  Stage = "proposal"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

// Stages lists every pipeline stage in board order.
var Stages = []Stage{StageNew, StageContacted, StageProposal, StageWon, StageLost}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageProposal, StageWon, StageLost:
		return true
	}
	return false
}

// CanMoveStage reports whether a lead may move from one stage to another.
// Any stage is reachable from any other, including reopening won or lost
// leads; a stricter pipeline policy would only need to change this function.
func CanMoveStage(from, to Stage) bool {
	return to.Valid()
}

// Priority ranks leads and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// CanMoveTaskStatus reports whether a task may move between two statuses.
// No status is terminal: a completed task can be reopened.
func CanMoveTaskStatus(from, to TaskStatus) bool {
	return to.Valid()
}

// Client is a tracked customer or prospect.
type Client struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	Company   string       `json:"company"`
	Status    ClientStatus `json:"status"`
	Tags      []string     `json:"tags"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Lead is a sales opportunity tied to a client.
//
// ClientName is a snapshot of the client's name taken when the lead is saved.
// It is not kept in sync: renaming the client later leaves the old name here
// until the lead itself is edited.
type Lead struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	ClientID          string     `json:"clientId"`
	ClientName        string     `json:"clientName"`
	Stage             Stage      `json:"stage"`
	Value             float64    `json:"value"`
	Priority          Priority   `json:"priority"`
	Description       string     `json:"description,omitempty"`
	ContactPerson     string     `json:"contactPerson,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Task is a follow-up item, optionally tied to a client and/or a lead.
//
// ClientID and LeadID are independent weak references: nothing requires the
// lead to belong to the task's client, and deleting either referent leaves
// the id dangling. ClientName and LeadTitle are save-time snapshots like
// Lead.ClientName.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	ClientID    string     `json:"clientId,omitempty"`
	ClientName  string     `json:"clientName,omitempty"`
	LeadID      string     `json:"leadId,omitempty"`
	LeadTitle   string     `json:"leadTitle,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
