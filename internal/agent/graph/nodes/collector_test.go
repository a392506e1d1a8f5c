package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/oracle/oracletest"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
)

func TestCollectorAsksForConfirmation(t *testing.T) {
	c := NewCollector(oracletest.New(), taxonomy.Default())
	s := stateWith("health please", model.Patch{CurrentCategory: model.Set("Health")})

	p, err := c.Collect(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, p.Messages, 1)
	assert.Equal(t, "It sounds like you are looking for Health Insurance. Is that correct?", p.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, p.Messages[0].Role)
	tag, _ := p.LastAskedField.Get()
	assert.Equal(t, model.AskedCategoryConfirmation, tag)
}

func TestCollectorAsksForCategory(t *testing.T) {
	c := NewCollector(oracletest.New(), taxonomy.Default())
	p, err := c.Collect(context.Background(), stateWith("hi", model.Patch{}))
	require.NoError(t, err)
	require.Len(t, p.Messages, 1)
	assert.Contains(t, p.Messages[0].Content, "Health")
	assert.Contains(t, p.Messages[0].Content, "Which one are you interested in?")
	tag, _ := p.LastAskedField.Get()
	assert.Equal(t, model.AskedCategory, tag)
}

func TestCollectorBulkQuestions(t *testing.T) {
	oc := oracletest.New().On(oracletest.BulkQuestions, "\"Could you please provide:\n1. Your city tier?\n2. Any pre-existing diseases?\"")
	c := NewCollector(oc, taxonomy.Default())
	s := stateWith("yes", model.Patch{
		CurrentCategory:   model.Set("Health"),
		CategoryConfirmed: model.Set(true),
		MissingFields:     model.Set([]string{"city_tier", "pre_existing_diseases"}),
	})

	p, err := c.Collect(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, p.Messages, 1)
	assert.Equal(t, "Could you please provide:\n1. Your city tier?\n2. Any pre-existing diseases?", p.Messages[0].Content)
	tag, _ := p.LastAskedField.Get()
	assert.Equal(t, model.AskedBulkQuestions, tag)
	assert.Equal(t, 1, oc.CallsContaining("city_tier, pre_existing_diseases"))
}

func TestCollectorBulkQuestionsEmptyReplyFallsBack(t *testing.T) {
	oc := oracletest.New().On(oracletest.BulkQuestions, "  ")
	c := NewCollector(oc, taxonomy.Default())
	s := stateWith("yes", model.Patch{
		CurrentCategory:   model.Set("Pet"),
		CategoryConfirmed: model.Set(true),
		MissingFields:     model.Set([]string{"animal_breed"}),
	})

	p, err := c.Collect(context.Background(), s)
	require.NoError(t, err)
	assert.Contains(t, p.Messages[0].Content, "1. Your animal breed?")
}

func TestCollectorOracleFailure(t *testing.T) {
	boom := errors.New("timeout")
	c := NewCollector(oracletest.New().Fail(oracletest.BulkQuestions, boom), taxonomy.Default())
	s := stateWith("yes", model.Patch{
		CurrentCategory:   model.Set("Pet"),
		CategoryConfirmed: model.Set(true),
		MissingFields:     model.Set([]string{"animal_breed"}),
	})
	_, err := c.Collect(context.Background(), s)
	assert.ErrorIs(t, err, boom)
}

func TestCollectorNothingToAsk(t *testing.T) {
	c := NewCollector(oracletest.New(), taxonomy.Default())
	s := stateWith("ok", model.Patch{CurrentCategory: model.Set("Pet"), CategoryConfirmed: model.Set(true)})
	p, err := c.Collect(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestCollectorIsIdempotent(t *testing.T) {
	oc := oracletest.New().On(oracletest.BulkQuestions, "1. Age?")
	c := NewCollector(oc, taxonomy.Default())
	states := []model.DialogueState{
		stateWith("x", model.Patch{CurrentCategory: model.Set("Pet")}),
		stateWith("x", model.Patch{}),
		stateWith("x", model.Patch{
			CurrentCategory:   model.Set("Pet"),
			CategoryConfirmed: model.Set(true),
			MissingFields:     model.Set([]string{"animal_age"}),
		}),
	}
	for _, s := range states {
		first, err := c.Collect(context.Background(), s)
		require.NoError(t, err)
		second, err := c.Collect(context.Background(), s)
		require.NoError(t, err)
		a, _ := first.LastAskedField.Get()
		b, _ := second.LastAskedField.Get()
		assert.Equal(t, a, b)
		assert.NotEqual(t, model.AskedNothing, a)
	}
}

func TestJoinWithAnd(t *testing.T) {
	assert.Equal(t, "", joinWithAnd(nil))
	assert.Equal(t, "Pet", joinWithAnd([]string{"Pet"}))
	assert.Equal(t, "Pet and Health", joinWithAnd([]string{"Pet", "Health"}))
	assert.Equal(t, "Pet, Health, and Vehicle", joinWithAnd([]string{"Pet", "Health", "Vehicle"}))
}
