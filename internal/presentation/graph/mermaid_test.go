package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid_DialogsAndTriggers(t *testing.T) {
	out := GenerateMermaid(
		[]DialogNode{
			{Name: "book-haircut", Steps: 4},
			{Name: "ask-name", Steps: 2},
		},
		[]TriggerEdge{
			{Label: "BookHaircut", Dialog: "book-haircut"},
			{Label: "^start over$", Reset: true},
		},
	)

	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `book_haircut[["book-haircut (4 steps)"]]`)
	assert.Contains(t, out, `ask_name[["ask-name (2 steps)"]]`)
	assert.Contains(t, out, `trigger_0[/"BookHaircut"/]`)
	assert.Contains(t, out, "trigger_0 --> book_haircut")
	assert.Contains(t, out, "trigger_1 -. reset .-> idle((idle))")
}

func TestGenerateMermaid_SanitizesIDs(t *testing.T) {
	out := GenerateMermaid([]DialogNode{{Name: "flows/book.appointment", Steps: 1}}, nil)
	assert.Contains(t, out, "flows_book_appointment")
}
