package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

const sampleRuleFile = `
defaultInfoClass: FileBothDirectory
rules:
  - name: saveRedirect
    originDirectory: 'C:\Game\Saves'
    targetDirectory: 'D:\Target'
    redirectMode: Simple
  - name: overlayRedirect
    originDirectory: 'C:\Game\Config'
    targetDirectory: 'D:\Overlay'
    filePatterns: ['*.cfg']
    redirectMode: Overlay
`

func writeTempRuleFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFile_DecodesEnumsAndLists(t *testing.T) {
	path := writeTempRuleFile(t, sampleRuleFile)

	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, layout.FileBothDirectory, f.DefaultInfoClass)
	require.Len(t, f.Rules, 2)
	assert.Equal(t, rulestore.Simple, f.Rules[0].RedirectMode)
	assert.Equal(t, rulestore.Overlay, f.Rules[1].RedirectMode)
	assert.Equal(t, []string{"*.cfg"}, f.Rules[1].FilePatterns)
}

func TestLoadFile_RejectsUnknownRedirectMode(t *testing.T) {
	path := writeTempRuleFile(t, `
rules:
  - name: bad
    originDirectory: 'C:\A'
    targetDirectory: 'D:\B'
    redirectMode: Sideways
`)

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestFile_BuildRules_StopsAtFirstRejection(t *testing.T) {
	f := File{Rules: []RuleConfig{
		{Name: "r1", OriginDirectory: `C:\A`, TargetDirectory: `C:\A`, RedirectMode: rulestore.Simple},
	}}

	b := rulestore.NewBuilder()
	name, reason := f.BuildRules(b)
	assert.Equal(t, "r1", name)
	assert.Equal(t, rulestore.RejectOriginEqualsTarget, reason)
}
