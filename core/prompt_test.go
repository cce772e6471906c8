package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_EmptyTimeline(t *testing.T) {
	agent := Agent{ID: "writer", Role: "Technical Writer", Goal: "summarize findings"}
	snap := NewContextStore("write a summary").Snapshot()

	system, user := BuildPrompt(agent, snap)

	assert.Contains(t, system, "Technical Writer")
	assert.Contains(t, system, "summarize findings")
	assert.Contains(t, user, "write a summary")
	assert.NotContains(t, user, "Prior agent outputs")
}

func TestBuildPrompt_RendersTimelineInOrder(t *testing.T) {
	agent := Agent{ID: "editor", Role: "Editor", Goal: "polish"}

	store := NewContextStore("produce an article")
	store.RecordOutput(record("researcher", "Researcher", "facts gathered"))
	store.RecordOutput(record("writer", "Writer", "draft written"))

	_, user := BuildPrompt(agent, store.Snapshot())

	assert.Contains(t, user, "Researcher (researcher): facts gathered")
	assert.Contains(t, user, "Writer (writer): draft written")
	assert.Less(t,
		strings.Index(user, "facts gathered"),
		strings.Index(user, "draft written"),
		"records must render in timeline order")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	agent := Agent{ID: "a", Role: "R", Goal: "G"}
	store := NewContextStore("in")
	store.RecordOutput(record("x", "X", "out"))
	snap := store.Snapshot()

	s1, u1 := BuildPrompt(agent, snap)
	s2, u2 := BuildPrompt(agent, snap)
	assert.Equal(t, s1, s2)
	assert.Equal(t, u1, u2)
}
