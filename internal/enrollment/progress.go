package enrollment

import "github.com/google/uuid"

// ModuleStatus is the input of Percentage for a single module.
type ModuleStatus struct {
	ModuleID     uuid.UUID
	VideoWatched bool
	TextRead     bool
	QuizPassed   bool
	HasQuiz      bool
}

// Complete reports whether the learner has finished every part of the module.
// A module without a quiz only needs the video and the text.
func (s ModuleStatus) Complete() bool {
	return s.VideoWatched && s.TextRead && (s.QuizPassed || !s.HasQuiz)
}

// Percentage returns floor(100 * completed / totalModules) clamped to [0, 100].
// Each module counts once however many statuses mention it.
func Percentage(statuses []ModuleStatus, totalModules int) int {
	if totalModules <= 0 {
		return 0
	}

	completed := make(map[uuid.UUID]struct{}, len(statuses))
	for _, s := range statuses {
		if s.Complete() {
			completed[s.ModuleID] = struct{}{}
		}
	}

	pct := 100 * len(completed) / totalModules
	if pct > 100 {
		return 100
	}
	return pct
}

func IsComplete(percentage int) bool {
	return percentage == 100
}
