package tasks

// Info is the live view of one background task, as reported by the task
// queue at read time.
//
// All fields are empty when the case has no task handle for the phase.
type Info struct {
	TaskId string `json:"taskId,omitempty"`

	Status string `json:"status,omitempty"`

	// Result is the payload the task returned on success, if any.
	Result string `json:"result,omitempty"`

	// Error is a short summary of the failure, if the task failed.
	Error string `json:"error,omitempty"`
}

func (i Info) Equal(o Info) bool {
	return i.TaskId == o.TaskId &&
		i.Status == o.Status &&
		i.Result == o.Result &&
		i.Error == o.Error
}
