package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
)

func sampleState() model.DialogueState {
	s := model.NewDialogueState()
	return s.Apply(model.Patch{
		Messages:          []model.Message{model.UserMessage("pet insurance"), model.AssistantMessage("Pet, is that correct?")},
		CurrentCategory:   model.Set("Pet"),
		CategoryConfirmed: model.Set(true),
		CollectedData:     model.Set(map[string]string{"animal_species": "Dog"}),
		RecommendedPlan:   model.Set(model.PlanDone),
		PolicyContext:     model.Set(model.Ptr("policy text")),
		LogicContext:      model.Set(model.Ptr("")),
		NextStep:          model.Set(model.StageSales),
	})
}

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessionRepository(rdb, ttl), mr
}

func TestRedisSessionRoundTrip(t *testing.T) {
	r, mr := newRedisRepo(t, time.Hour)
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, r.Save(ctx, "c1", want))
	assert.True(t, mr.Exists("session:c1:state"))
	assert.Equal(t, time.Hour, mr.TTL("session:c1:state"))

	got, found, err := r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want.Messages, got.Messages)
	assert.Equal(t, "Pet", got.CurrentCategory)
	assert.True(t, got.CategoryConfirmed)
	assert.Equal(t, map[string]string{"animal_species": "Dog"}, got.CollectedData)
	require.NotNil(t, got.PolicyContext)
	require.NotNil(t, got.LogicContext)
	assert.Equal(t, "", *got.LogicContext)
	assert.Equal(t, model.StageNone, got.NextStep)
}

func TestRedisSessionUnknownConversation(t *testing.T) {
	r, _ := newRedisRepo(t, 0)
	got, found, err := r.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NotNil(t, got.CollectedData)
}

func TestRedisSessionDelete(t *testing.T) {
	r, mr := newRedisRepo(t, 0)
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, "c1", sampleState()))
	require.NoError(t, r.Delete(ctx, "c1"))
	assert.False(t, mr.Exists("session:c1:state"))
}

func TestRedisSessionCorruptPayload(t *testing.T) {
	r, mr := newRedisRepo(t, 0)
	require.NoError(t, mr.Set("session:bad:state", "{not json"))
	_, _, err := r.Load(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisSessionServerDown(t *testing.T) {
	r, mr := newRedisRepo(t, 0)
	mr.Close()
	_, _, err := r.Load(context.Background(), "c1")
	assert.Error(t, err)
}

func TestMemorySessionIsolation(t *testing.T) {
	r := NewMemorySessionRepository()
	ctx := context.Background()
	s := sampleState()
	require.NoError(t, r.Save(ctx, "c1", s))

	s.CollectedData["animal_species"] = "Cat"
	got, found, err := r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Dog", got.CollectedData["animal_species"])

	require.NoError(t, r.Delete(ctx, "c1"))
	_, found, err = r.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)
}
