package dao

import (
	"context"
	"testing"

	"github.com/a1s/gridbuf/internal/config/data"
	"github.com/a1s/gridbuf/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	h := model1.NewHeader("NAME", "STATUS")
	old := model1.Row{ID: "a", Fields: model1.Fields{"a", "up"}}

	patch, err := Describe(h, old, old)
	require.NoError(t, err)
	assert.Empty(t, patch)

	patch, err = Describe(h, old, model1.Row{ID: "a", Fields: model1.Fields{"a", "down"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"op":"replace","path":"/STATUS","value":"down"}]`, patch)
}

func TestAccessorFor(t *testing.T) {
	_, err := AccessorFor(context.Background(), data.Source{Kind: "zorg"})
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = AccessorFor(context.Background(), data.Source{Kind: "yaml"})
	assert.ErrorIs(t, err, ErrNoPath)

	path := writeFixture(t, "src.yaml", yamlFixture)
	acc, err := AccessorFor(context.Background(), data.Source{Kind: "yaml", Path: path})
	require.NoError(t, err)
	assert.IsType(t, &YAMLSource{}, acc)
}

func TestListAccessors(t *testing.T) {
	assert.Equal(t, []string{"ini", "s3", "yaml"}, ListAccessors())
}
