package oracle

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/oracle/oracletest"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
	errx "github.com/Chative-core-poc-v1/policy-advisor/internal/core/error"
)

type stubChatModel struct {
	reply *schema.Message
	err   error
	seen  []*schema.Message
}

func (s *stubChatModel) Generate(_ context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	s.seen = in
	return s.reply, s.err
}

func (s *stubChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestChatModelCompleter(t *testing.T) {
	m := &stubChatModel{reply: schema.AssistantMessage("hello", nil)}
	out, err := NewChatModelCompleter(m).Complete(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	require.Len(t, m.seen, 1)
	assert.Equal(t, schema.User, m.seen[0].Role)
	assert.Equal(t, "say hi", m.seen[0].Content)
}

func TestChatModelCompleterWrapsErrors(t *testing.T) {
	m := &stubChatModel{err: errors.New("503")}
	_, err := NewChatModelCompleter(m).Complete(context.Background(), "x")

	var appErr *errx.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errx.OracleErrorMessage, appErr.Message)

	_, err = NewChatModelCompleter(&stubChatModel{}).Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestCheckConfirmation(t *testing.T) {
	c := oracletest.New().On(oracletest.ConfirmCategory, "```json\n{\"confirmed\": true, \"new_category\": null}\n```")
	ex := NewExtractor(c, taxonomy.Default())

	res, err := ex.CheckConfirmation(context.Background(), "yes", "Health")
	require.NoError(t, err)
	assert.True(t, res.IsConfirmed())
	assert.Empty(t, res.NewCategory)
	assert.Equal(t, 1, c.CallsContaining(`Are you looking for Health insurance?`))
}

func TestClassifyAndExtractPassesFields(t *testing.T) {
	c := oracletest.New().On(oracletest.ClassifyExtract,
		`{"switch_detected": false, "new_category": null, "extracted_data": {"animal_species": "Dog"}}`)
	ex := NewExtractor(c, taxonomy.Default())

	res, err := ex.ClassifyAndExtract(context.Background(), "my dog", "Pet", []string{"animal_species", "animal_age"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"animal_species": "Dog"}, res.ExtractedData)
	assert.Equal(t, 1, c.CallsContaining("'animal_species', 'animal_age'"))
}

func TestExtractorParseFailureIsSilent(t *testing.T) {
	c := oracletest.New().On(oracletest.ClassifyExtract, "sorry, I cannot help with that")
	res, err := NewExtractor(c, taxonomy.Default()).ClassifyAndExtract(context.Background(), "?", "", nil)
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestExtractorPropagatesOracleFailure(t *testing.T) {
	boom := errors.New("network down")
	c := oracletest.New().Fail(oracletest.ClassifyExtract, boom)

	_, err := NewExtractor(c, taxonomy.Default()).ClassifyAndExtract(context.Background(), "hi", "", nil)
	assert.ErrorIs(t, err, boom)
}
