package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/iconsprite/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  string
		wantDir  string
	}{
		{
			name:    "init empty directory",
			wantDir: ".",
		},
		{
			name:    "init named directory",
			args:    []string{"packages/ui"},
			wantDir: "packages/ui",
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "iconsprite.yaml"), []byte("existing"), 0o600))
			},
			wantErr: "already exists. Use --force to overwrite",
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "iconsprite.yaml"), []byte("existing"), 0o600))
			},
			args:    []string{"--force"},
			wantDir: ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			dir := filepath.Join(tmpDir, filepath.FromSlash(tt.wantDir))
			assert.FileExists(t, filepath.Join(dir, "iconsprite.yaml"))
			assert.DirExists(t, filepath.Join(dir, "svg-icons"))
			assert.Contains(t, buf.String(), "iconsprite project initialized!")
		})
	}
}

func TestInitConfigContent(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir})
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(tmpDir, "iconsprite.yaml"))
	require.NoError(t, err)

	s := string(content)
	assert.Contains(t, s, "# iconsprite configuration.")
	assert.Contains(t, s, "input_dir: svg-icons")
	assert.Contains(t, s, "sprite_path: public/icons/sprite.svg")
	assert.Contains(t, s, "manifest_path: components/icon/icon-names.ts")
	assert.Contains(t, s, "type_name: IconName")
	assert.Contains(t, s, "debounce: 100ms")
	assert.NotContains(t, s, "verbose")
	assert.NotContains(t, s, "project_root")

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(content, &parsed), "generated config must be valid YAML")
}

func TestInitConfigLoads(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir})
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadConfig(filepath.Join(tmpDir, "iconsprite.yaml"), nil)
	require.NoError(t, err)

	want := config.Default()
	assert.Equal(t, filepath.Join(tmpDir, "svg-icons"), cfg.InputDir)
	assert.Equal(t, want.TypeName, cfg.TypeName)
	assert.Equal(t, want.Watch.Debounce, cfg.Watch.Debounce)
	assert.Equal(t, want.Preview.Port, cfg.Preview.Port)
	assert.True(t, cfg.Format.Strict)
}
