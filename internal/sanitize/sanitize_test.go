package sanitize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 1.235, Round(1.23456))
	assert.Equal(t, -0.5, Round(-0.4996))
	assert.Equal(t, 0.0, Round(-0.0001))
	assert.False(t, math.Signbit(Round(-0.0001)), "negative zero must be folded")
}

func TestFloat(t *testing.T) {
	assert.Nil(t, Float(math.NaN()))
	assert.Nil(t, Float(math.Inf(1)))
	assert.Nil(t, Float(math.Inf(-1)))
	require.NotNil(t, Float(2.71828))
	assert.Equal(t, 2.718, *Float(2.71828))
}

type inner struct {
	Score float64 `json:"score"`
}

type sample struct {
	Name     string             `json:"name"`
	Value    float64            `json:"value"`
	Missing  float64            `json:"missing"`
	Optional *float64           `json:"optional,omitempty"`
	Hidden   string             `json:"-"`
	Items    []inner            `json:"items"`
	Lookup   map[string]float64 `json:"lookup"`
	Any      any                `json:"any"`
	Count    int                `json:"count"`
	private  float64
}

func TestTree_NestedStructure(t *testing.T) {
	s := sample{
		Name:    "x",
		Value:   3.14159,
		Missing: math.NaN(),
		Hidden:  "secret",
		Items:   []inner{{Score: 0.12345}, {Score: math.Inf(1)}},
		Lookup:  map[string]float64{"a": 9.87654},
		Any:     []any{1.0005, "s", map[string]any{"deep": math.NaN()}},
		Count:   7,
		private: 1,
	}

	tree, ok := Tree(s).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "x", tree["name"])
	assert.Equal(t, 3.142, tree["value"])
	assert.Nil(t, tree["missing"])
	assert.NotContains(t, tree, "optional")
	assert.NotContains(t, tree, "Hidden")
	assert.NotContains(t, tree, "private")
	assert.Equal(t, int64(7), tree["count"])

	items := tree["items"].([]any)
	assert.Equal(t, 0.123, items[0].(map[string]any)["score"])
	assert.Nil(t, items[1].(map[string]any)["score"])

	assert.Equal(t, 9.877, tree["lookup"].(map[string]any)["a"])

	anyList := tree["any"].([]any)
	assert.Equal(t, 1.001, anyList[0])
	assert.Nil(t, anyList[2].(map[string]any)["deep"])
}

func TestTree_IsJSONEncodable(t *testing.T) {
	payload := map[string]any{
		"nan":  math.NaN(),
		"inf":  []float64{math.Inf(-1), 1.23456},
		"ok":   true,
		"nest": &inner{Score: math.NaN()},
	}
	b, err := json.Marshal(Tree(payload))
	require.NoError(t, err)
	assert.JSONEq(t, `{"nan":null,"inf":[null,1.235],"ok":true,"nest":{"score":null}}`, string(b))
}
