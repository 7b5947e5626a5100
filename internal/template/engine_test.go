package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tododaemon/internal/testing/mock"
)

func TestEngine_Render(t *testing.T) {
	clock := mock.NewMockClock(time.Date(2025, 4, 2, 9, 30, 15, 0, time.Local))

	tests := []struct {
		name     string
		template string
		ctx      Context
		expected string
	}{
		{
			name:     "default title",
			template: `Task at time: {{ now | date "2006-01-02 15:04:05" }}`,
			expected: "Task at time: 2025-04-02 09:30:15",
		},
		{
			name:     "context values",
			template: `{{ .RunID | trunc 8 }} #{{ .Iteration }} for {{ .Resource }}`,
			ctx:      Context{Iteration: 3, RunID: "0123456789abcdef", Resource: "api://todo"},
			expected: "01234567 #3 for api://todo",
		},
		{
			name:     "extra values do not override built-ins",
			template: `{{ .team | upper }} {{ .Iteration }}`,
			ctx:      Context{Iteration: 1, Extra: map[string]interface{}{"team": "ops", "Iteration": 99}},
			expected: "OPS 1",
		},
		{
			name:     "surrounding whitespace is trimmed",
			template: "  plain  \n",
			expected: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.template, WithClock(clock.Now))
			require.NoError(t, err)

			got, err := e.Render(tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEngine_UsesClock(t *testing.T) {
	clock := mock.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
	e, err := New(`{{ now | date "15:04" }}`, WithClock(clock.Now))
	require.NoError(t, err)

	first, err := e.Render(Context{})
	require.NoError(t, err)
	clock.Advance(90 * time.Minute)
	second, err := e.Render(Context{})
	require.NoError(t, err)

	assert.Equal(t, "00:00", first)
	assert.Equal(t, "01:30", second)
}

func TestNew_InvalidTemplate(t *testing.T) {
	_, err := New(`{{ .Iteration `)
	assert.ErrorContains(t, err, "invalid title template")

	_, err = New(`{{ nosuchfunc }}`)
	assert.Error(t, err)
}

func TestRender_MissingKey(t *testing.T) {
	e, err := New(`{{ .Unknown }}`)
	require.NoError(t, err)

	_, err = e.Render(Context{})
	assert.ErrorContains(t, err, "failed to render title")
}

func TestMergeContexts(t *testing.T) {
	merged := MergeContexts(
		map[string]interface{}{"a": 1, "b": 2},
		nil,
		map[string]interface{}{"b": 3},
	)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 3}, merged)
}
