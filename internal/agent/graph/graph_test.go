package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/conversations"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/nodes"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/oracle"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/oracle/oracletest"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/pricing"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/repo"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/retrieval"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/retrieval/retrievaltest"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
)

const (
	switchToPet = `{"switch_detected": true, "new_category": "Pet", "extracted_data": {"animal_species": "Dog"}}`
	nothingNew  = `{"switch_detected": false, "new_category": null, "extracted_data": {}}`
	petDetails  = "```json\n" +
		`{"switch_detected": false, "new_category": null, "extracted_data": {"animal_breed": "Beagle", "animal_age": "3", "market_value_or_purchase_price": "20000"}}` +
		"\n```"
)

type fixture struct {
	runner   Runner
	repo     *repo.MemorySessionRepository
	oracle   *oracletest.ScriptedCompleter
	policies *retrievaltest.FuncRetriever
}

func newFixture(t *testing.T, oc *oracletest.ScriptedCompleter) *fixture {
	t.Helper()
	tx := taxonomy.Default()
	policies := &retrievaltest.FuncRetriever{
		CategoriesOf: retrieval.CategoriesFrom,
		Fn: func(q retrievaltest.Query) ([]*schema.Document, error) {
			return []*schema.Document{
				retrievaltest.Doc("paws.pdf", "Animal - Pet Insurance", "Paws Plan covers vet bills up to Rs 50,000."),
			}, nil
		},
	}
	rules := pricing.NewStore(map[string]pricing.Rule{"paws.pdf": {RuleText: "Dog age 1-5: Rs 4,000/yr"}})

	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		Router:    nodes.NewRouter(oracle.NewExtractor(oc, tx), tx, 1),
		Collector: nodes.NewCollector(oc, tx),
		Analyst:   nodes.NewAnalyst(policies, rules, tx, oc, model.DefaultAnalystConfig()),
		Sales:     nodes.NewSales(oc),
	})
	require.NoError(t, err)

	r := repo.NewMemorySessionRepository()
	return &fixture{
		runner:   NewRunner(runnable, conversations.NewSessionManager(r), "gemini-2.5-flash"),
		repo:     r,
		oracle:   oc,
		policies: policies,
	}
}

func (f *fixture) say(t *testing.T, text string) string {
	t.Helper()
	reply, err := f.runner.Invoke(context.Background(), model.QueryInput{ConversationID: "conv-1", Query: text})
	require.NoError(t, err)
	return reply
}

func (f *fixture) state(t *testing.T) model.DialogueState {
	t.Helper()
	s, found, err := f.repo.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	require.True(t, found)
	return s
}

func TestConversationFromCategoryToSales(t *testing.T) {
	oc := oracletest.New().
		On(oracletest.ClassifyExtract, switchToPet, nothingNew, petDetails, nothingNew).
		On(oracletest.ConfirmCategory, `{"confirmed": true, "new_category": null}`).
		On(oracletest.BulkQuestions, "\"1. What breed is your dog?\n2. How old is it?\n3. What did it cost?\"").
		On(oracletest.SinglePolicy, "Paws Plan is the best match.").
		On(oracletest.Sales, "It costs Rs 4,000 per year.")
	f := newFixture(t, oc)

	reply := f.say(t, "I want insurance for my dog")
	assert.Equal(t, "It sounds like you are looking for Pet Insurance. Is that correct?", reply)
	s := f.state(t)
	assert.Equal(t, "Pet", s.CurrentCategory)
	assert.False(t, s.CategoryConfirmed)
	assert.Equal(t, model.AskedCategoryConfirmation, s.LastAskedField)
	assert.Equal(t, map[string]string{"animal_species": "Dog"}, s.CollectedData)

	reply = f.say(t, "yes")
	assert.Equal(t, "1. What breed is your dog?\n2. How old is it?\n3. What did it cost?", reply)
	s = f.state(t)
	assert.True(t, s.CategoryConfirmed)
	assert.Equal(t, model.AskedBulkQuestions, s.LastAskedField)
	assert.Equal(t, []string{"animal_breed", "animal_age", "market_value_or_purchase_price"}, s.MissingFields)

	reply = f.say(t, "Beagle, 3 years, 20000")
	assert.Equal(t, "Paws Plan is the best match.", reply)
	s = f.state(t)
	assert.True(t, s.HasRecommendation())
	require.NotNil(t, s.PolicyContext)
	assert.Contains(t, *s.PolicyContext, "POLICY OPTION 1: paws.pdf")
	require.NotNil(t, s.LogicContext)
	assert.Contains(t, *s.LogicContext, "Dog age 1-5")

	reply = f.say(t, "how much is it?")
	assert.Equal(t, "It costs Rs 4,000 per year.", reply)
	assert.Equal(t, 1, oc.CallsContaining(`User Question: "how much is it?"`))

	reply = f.say(t, "show me other options")
	assert.Equal(t, "Sure, let me look for other options based on your profile...\n\nPaws Plan is the best match.", reply)
	s = f.state(t)
	assert.True(t, s.HasRecommendation())
	assert.Len(t, s.Messages, 12)
	assert.Equal(t, model.AssistantMessage(conversations.Greeting), s.Messages[0])
}

func TestFailedTurnLeavesStateUntouched(t *testing.T) {
	boom := errors.New("quota exceeded")
	oc := oracletest.New().
		On(oracletest.ClassifyExtract, switchToPet).
		Fail(oracletest.ConfirmCategory, boom)
	f := newFixture(t, oc)

	f.say(t, "pet insurance please")
	before := f.state(t)

	_, err := f.runner.Invoke(context.Background(), model.QueryInput{ConversationID: "conv-1", Query: "yes"})
	require.Error(t, err)
	assert.ErrorContains(t, err, boom.Error())

	assert.Equal(t, before, f.state(t))
}

func TestUnknownCategoryAsksForOne(t *testing.T) {
	f := newFixture(t, oracletest.New().On(oracletest.ClassifyExtract, "no idea"))

	reply := f.say(t, "hello")
	assert.Contains(t, reply, "I can help with Health, ")
	assert.Contains(t, reply, "Which one are you interested in?")
	assert.Equal(t, model.AskedCategory, f.state(t).LastAskedField)
	assert.Empty(t, f.policies.Queries())
}

func TestResetForgetsConversation(t *testing.T) {
	f := newFixture(t, oracletest.New().On(oracletest.ClassifyExtract, switchToPet))
	f.say(t, "dog insurance")

	require.NoError(t, f.runner.Reset(context.Background(), "conv-1"))
	_, found, err := f.repo.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBuildGraphRejectsMissingStages(t *testing.T) {
	_, err := BuildGraph(context.Background(), nil)
	assert.Error(t, err)
	_, err = BuildGraph(context.Background(), &GraphConfig{})
	assert.Error(t, err)
}

func TestBuildAdvisorGraphValidatesDependencies(t *testing.T) {
	_, err := BuildAdvisorGraph(context.Background(), Config{})
	assert.ErrorContains(t, err, "session repo")
	_, err = BuildAdvisorGraph(context.Background(), Config{SessionRepo: repo.NewMemorySessionRepository()})
	assert.ErrorContains(t, err, "policy retriever")
}
