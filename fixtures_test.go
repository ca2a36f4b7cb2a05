package rxgen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFixtureEngine struct {
	mock.Mock
}

func (m *mockFixtureEngine) GenerateFixture(index int, fixture Fixture) ([]string, error) {
	args := m.Called(index, fixture)
	values, _ := args.Get(0).([]string)
	return values, args.Error(1)
}

func TestProcessFixtures(t *testing.T) {
	t.Parallel()
	fixtures := []Fixture{
		{Name: "a", Pattern: "a", Count: 2},
		{Name: "b", Pattern: "[", Count: 1},
		{Name: "c", Pattern: "c"},
	}
	failure := errors.New("boom")

	engine := new(mockFixtureEngine)
	engine.On("GenerateFixture", 0, fixtures[0]).Return([]string{"a", "a"}, nil)
	engine.On("GenerateFixture", 1, fixtures[1]).Return(nil, failure)
	engine.On("GenerateFixture", 2, fixtures[2]).Return([]string{"c"}, nil)

	logger, _ := zap.NewProduction()
	results, err := ProcessFixtures(context.Background(), logger, engine, fixtures)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, FixtureResult{Name: "a", Pattern: "a", Values: []string{"a", "a"}}, results[0])
	assert.Equal(t, FixtureResult{Name: "b", Pattern: "[", Err: failure, Error: "boom"}, results[1])
	assert.Equal(t, FixtureResult{Name: "c", Pattern: "c", Values: []string{"c"}}, results[2])
	assert.Equal(t, []FixtureResult{results[1]}, Failed(results))

	engine.AssertExpectations(t)
}

func TestProcessFixtures_OrderedWithRealEngine(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(seeded(21))
	require.NoError(t, err)

	var fixtures []Fixture
	for i := 0; i < 40; i++ {
		fixtures = append(fixtures, Fixture{
			Name:    fmt.Sprintf("f%02d", i),
			Pattern: fmt.Sprintf(`f%02d-[a-z]{4}`, i),
			Count:   3,
		})
	}

	results, err := ProcessFixtures(context.Background(), nil, engine, fixtures)
	require.NoError(t, err)
	require.Len(t, results, len(fixtures))

	for i, r := range results {
		assert.Equal(t, fixtures[i].Name, r.Name)
		require.NoError(t, r.Err)
		require.Len(t, r.Values, 3)
		for _, v := range r.Values {
			assert.Regexp(t, fmt.Sprintf(`^f%02d-[a-z]{4}$`, i), v)
		}
	}

	again, err := ProcessFixtures(context.Background(), nil, engine, fixtures)
	require.NoError(t, err)
	assert.Equal(t, results, again, "fixtures are reproducible regardless of scheduling")
}

func TestProcessFixtures_CompileErrorIsRecorded(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(seeded(1))
	require.NoError(t, err)

	results, err := ProcessFixtures(context.Background(), nil, engine, []Fixture{
		{Name: "bad", Pattern: "a{3,1}"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Contains(t, results[0].Error, "quantifier min 3 is greater than max 1")
}

func TestProcessFixtures_ContextCancellation(t *testing.T) {
	t.Parallel()
	engine := new(mockFixtureEngine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fixtures := []Fixture{{Name: "a", Pattern: "a"}, {Name: "b", Pattern: "b"}}
	results, err := ProcessFixtures(ctx, nil, engine, fixtures)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Values)
	engine.AssertNotCalled(t, "GenerateFixture", mock.Anything, mock.Anything)
}
