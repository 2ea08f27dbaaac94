package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	devBase := filepath.Join(os.TempDir(), "quicknotes-dev")
	inTemp := filepath.Join(os.TempDir(), "already-safe")

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		want      string
	}{
		{"normal empty", "", false, "."},
		{"normal path", "/some/notes", false, "/some/notes"},
		{"temp empty", "", true, filepath.Join(devBase, "default")},
		{"temp dot", ".", true, filepath.Join(devBase, "default")},
		{"temp relative", "my-notes", true, filepath.Join(devBase, "my-notes")},
		{"temp absolute", "/home/me/notes", true, filepath.Join(devBase, "notes")},
		{"already in temp", inTemp, true, inTemp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.userPath, tt.forceTemp))
		})
	}
}

func TestIsDevRun(t *testing.T) {
	assert.True(t, IsDevRun(), "test binaries count as dev runs")
}
