package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline("Retail", "")
	require.NoError(t, err)
	for _, name := range []string{"New", "Measuring", "Production", "Delivery"} {
		_, err := p.AddStage(name, "")
		require.NoError(t, err)
	}
	return p
}

func TestPipeline_AddStage(t *testing.T) {
	p := newBoard(t)
	assert.Len(t, p.Stages, 4)
	for i, s := range p.Stages {
		assert.Equal(t, i, s.Position)
	}

	_, err := p.AddStage("new", "")
	assert.Error(t, err, "stage names are unique per pipeline, case-insensitive")
}

func TestPipeline_RemoveStage(t *testing.T) {
	p := newBoard(t)
	removed := p.Stages[1].ID

	require.NoError(t, p.RemoveStage(removed))
	assert.Len(t, p.Stages, 3)
	for i, s := range p.Stages {
		assert.Equal(t, i, s.Position, "positions stay dense after removal")
	}
	assert.False(t, p.HasStage(removed))

	assert.Error(t, p.RemoveStage(uuid.New()))
}

func TestPipeline_ReorderStages(t *testing.T) {
	p := newBoard(t)
	ids := []uuid.UUID{p.Stages[3].ID, p.Stages[0].ID, p.Stages[2].ID, p.Stages[1].ID}

	require.NoError(t, p.ReorderStages(ids))
	assert.Equal(t, "Delivery", p.Stages[0].Name)
	assert.Equal(t, "New", p.Stages[1].Name)
	for i, s := range p.Stages {
		assert.Equal(t, i, s.Position)
	}

	t.Run("rejects partial order", func(t *testing.T) {
		assert.Error(t, p.ReorderStages(ids[:2]))
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		dup := []uuid.UUID{ids[0], ids[0], ids[2], ids[3]}
		assert.Error(t, p.ReorderStages(dup))
	})
}

func TestPipeline_Archive(t *testing.T) {
	p := newBoard(t)
	p.MarkDefault()
	assert.Error(t, p.Archive(), "default pipeline cannot be archived")

	p.ClearDefault()
	require.NoError(t, p.Archive())
	assert.True(t, p.IsArchived)
}
