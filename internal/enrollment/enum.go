package enrollment

type Status string

const (
	StatusEnrolled   Status = "ENROLLED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var AllStatuses = []Status{StatusEnrolled, StatusInProgress, StatusCompleted}
