package nutrition

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply string
	err   error
	calls int
	seen  []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	f.seen = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestEstimate(t *testing.T) {
	cm := &fakeChatModel{reply: "```json\n{\"item_name\":\"banana\",\"nutrients\":{\"carbs_g\":27,\"calories_kcal\":105,\"protein_g\":1.3,\"fat_g\":0.4}}\n```"}

	got, err := NewEstimator(cm).Estimate(context.Background(), "  one banana ")
	require.NoError(t, err)
	assert.Equal(t, 1, cm.calls)
	assert.Equal(t, "banana", got.ItemName)
	assert.Equal(t, 27.0, got.Nutrients.CarbsG)

	require.Len(t, cm.seen, 1)
	assert.Equal(t, schema.User, cm.seen[0].Role)
	assert.Contains(t, cm.seen[0].Content, "Food: one banana")
	assert.Contains(t, cm.seen[0].Content, `{"item_name": "string", "nutrients": {"carbs_g": number`)
}

func TestEstimateEmptyDescription(t *testing.T) {
	cm := &fakeChatModel{}

	_, err := NewEstimator(cm).Estimate(context.Background(), "   ")
	var verr *pkg.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, cm.calls)
}

func TestEstimateModelError(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("quota exceeded")}

	_, err := NewEstimator(cm).Estimate(context.Background(), "pasta")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded"))
	assert.Equal(t, 1, cm.calls)
}

func TestEstimateEmptyReply(t *testing.T) {
	cm := &fakeChatModel{reply: ""}

	_, err := NewEstimator(cm).Estimate(context.Background(), "pasta")
	assert.ErrorIs(t, err, pkg.ErrEmptyOutput)
}

func TestEstimateUsesQueryAsName(t *testing.T) {
	cm := &fakeChatModel{reply: `{"nutrients":{"carbs_g":60}}`}

	got, err := NewEstimator(cm).Estimate(context.Background(), "pad thai")
	require.NoError(t, err)
	assert.Equal(t, "pad thai", got.ItemName)
}
