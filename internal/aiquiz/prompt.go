package aiquiz

import "fmt"

const (
	defaultCount = 3
	maxCount     = 10
	answerCount  = 4
)

const systemPrompt = `
You write multiple choice questions for corporate training courses.

Rules:
1. Every question has exactly 4 answers and exactly one correct answer.
2. Answers have similar length and structure; the correct one must not stand out.
3. Wrong answers are plausible distractors, never jokes.
4. Never reveal the answer in the question text. Explain it only in "explanation".
5. Difficulty:
   - easy: definitions and basic facts.
   - medium: applying a concept to a workplace situation.
   - hard: analysis, comparing procedures or spotting the mistake in a scenario.

Reply with pure JSON only, no text around it, in this shape:

[
  {
    "text": "<question>",
    "answers": ["<answer 1>", "<answer 2>", "<answer 3>", "<answer 4>"],
    "correct_index": <0-3>,
    "explanation": "<short explanation of the correct answer>"
  }
]
`

func clampCount(n int) int {
	if n <= 0 {
		return defaultCount
	}
	if n > maxCount {
		return maxCount
	}
	return n
}

func BuildUserPrompt(req GenerateDTO) string {
	material := ""
	if req.Context != "" {
		material = fmt.Sprintf("Base the questions on this course material: %s. ", req.Context)
	}

	return fmt.Sprintf(
		"Write %d %s questions about %q. %sFollow the JSON format from the instructions.",
		clampCount(req.Count), req.Difficulty, req.Topic, material,
	)
}
