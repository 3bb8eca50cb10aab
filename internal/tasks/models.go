// Package tasks is the gateway side of task management: schemas, the
// outbound HTTP client to the task CRUD service, and the protected route
// handlers. All real persistence lives behind the taskd service.
package tasks

// Task is the wire shape shared with taskd. UserID is nullable: the
// column predates the ownership constraint.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      *int64 `json:"user_id"`
}

// NewTask is what the gateway sends to taskd on create.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      int64  `json:"user_id"`
}

// UpdateTask carries a full-row update; the id travels in the body on the
// taskd wire.
type UpdateTask struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
