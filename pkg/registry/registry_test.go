package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shippedRegistry = "../../configs/activity-registry.json"

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistry)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	activity, ok := reg.Find("calculate-mentor-multiplier")
	require.True(t, ok)
	assert.Equal(t, "calculate-mentor-multiplier", activity.TaskType)
	assert.True(t, activity.HasErrorCode("PRICING_VALIDATION_FAILED"))
	assert.True(t, activity.HasErrorCode("MENTOR_NOT_FOUND"))
	assert.NotEmpty(t, activity.InputSchema)
}

func TestFind_Missing(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{{ID: "a", TaskType: "task-a"}}}

	_, ok := reg.Find("b")
	assert.False(t, ok)

	found, ok := reg.Find("task-a")
	require.True(t, ok)
	assert.Equal(t, "a", found.ID)
}

func validActivity(id string) Activity {
	return Activity{ID: id, DisplayName: id, TaskType: id, Category: "mentor", Timeout: "5s"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"duplicate", ActivityRegistry{Activities: []Activity{validActivity("a"), validActivity("a")}}, "duplicate"},
		{"missing task type", ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", Category: "c"}}}, "TaskType"},
		{"bad timeout", ActivityRegistry{Activities: []Activity{func() Activity {
			a := validActivity("a")
			a.Timeout = "ten seconds"
			return a
		}()}}, "invalid timeout"},
		{"bad schema", ActivityRegistry{Activities: []Activity{func() Activity {
			a := validActivity("a")
			a.InputSchema = map[string]interface{}{"type": 5}
			return a
		}()}}, "input schema"},
		{"valid", ActivityRegistry{Activities: []Activity{validActivity("a"), validActivity("b")}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadRegistry(path)
	assert.Error(t, err)
}
