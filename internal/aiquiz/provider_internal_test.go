package aiquiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionsStripsFences(t *testing.T) {
	raw := "```json\n[{\"text\":\"Q\",\"answers\":[\"a\",\"b\",\"c\",\"d\"],\"correct_index\":1,\"explanation\":\"e\"}]\n```"

	questions, err := parseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].CorrectIndex)
}

func TestParseQuestionsRejectsProse(t *testing.T) {
	_, err := parseQuestions("Sure! Here are your questions.")
	assert.Error(t, err)
}
