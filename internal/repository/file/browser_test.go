package file

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBrowserExport(t *testing.T) {
	input := `[
		{"id": 0, "title": "Buy milk", "detail": "", "deadLine": "2024-01-10", "isCompleted": false},
		{"id": 4, "title": "Walk dog", "detail": "undefined", "deadLine": "Wed Jan 10 2024 09:00:00 GMT+0900 (Japan Standard Time)", "isCompleted": true},
		{"title": "No id", "deadline": "2024-02-01T00:00:00Z"}
	]`

	tasks, err := DecodeBrowserExport(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, int64(0), tasks[0].ID)
	assert.Equal(t, "2024-01-10", tasks[0].Deadline)

	assert.Equal(t, int64(4), tasks[1].ID)
	assert.Empty(t, tasks[1].Detail)
	assert.True(t, tasks[1].IsCompleted)

	assert.Equal(t, int64(2), tasks[2].ID, "missing id falls back to position")
	assert.Equal(t, "2024-02-01T00:00:00Z", tasks[2].Deadline)
}

func TestDecodeBrowserExport_Invalid(t *testing.T) {
	_, err := DecodeBrowserExport(strings.NewReader(`{"title": "not an array"}`))
	assert.Error(t, err)
}
