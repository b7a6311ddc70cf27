package rulestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelgr/pathwinder/internal/fsops/fake"
	"github.com/samuelgr/pathwinder/internal/pwpath"
)

func mustPath(t *testing.T, raw string) pwpath.Path {
	t.Helper()
	p, ok := pwpath.New(raw)
	require.True(t, ok, raw)
	return p
}

func TestBuilder_RejectsOriginEqualsTarget(t *testing.T) {
	b := NewBuilder()
	reason := b.AddRule("r1", mustPath(t, `C:\Game\Saves`), mustPath(t, `C:\Game\Saves`), nil, Simple)
	assert.Equal(t, RejectOriginEqualsTarget, reason)
}

func TestBuilder_RejectsTargetCollidingWithOrigin(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, RejectNone, b.AddRule("r1", mustPath(t, `C:\A`), mustPath(t, `C:\B`), nil, Simple))
	reason := b.AddRule("r2", mustPath(t, `C:\C`), mustPath(t, `C:\A`), nil, Simple)
	assert.Equal(t, RejectTargetCollidesWithExistingOrigin, reason)
}

func TestBuilder_AllowsSharedOriginWithDistinctPatterns(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, RejectNone, b.AddRule("textFiles", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target\Text`), []string{"*.txt"}, Simple))
	require.Equal(t, RejectNone, b.AddRule("catchAll", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target\All`), nil, Simple))
	reason := b.AddRule("dupCatchAll", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target\Dup`), nil, Simple)
	assert.Equal(t, RejectAmbiguousOriginPatterns, reason)
}

func TestBuilder_Finalize_RejectsNonDirectoryOrigin(t *testing.T) {
	facade := fake.New()
	facade.AddFile(mustPath(t, `C:\Game\Saves`))

	b := NewBuilder()
	require.Equal(t, RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target`), nil, Simple))

	_, violations := b.Finalize(context.Background(), facade)
	require.Len(t, violations, 1)
	assert.Equal(t, "r1", violations[0].RuleName)
}

func TestContainer_OrdersBySpecificityThenCatchAllLast(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	b := NewBuilder()
	require.Equal(t, RejectNone, b.AddRule("catchAll", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\All`), nil, Simple))
	require.Equal(t, RejectNone, b.AddRule("textFiles", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Text`), []string{"*.txt"}, Simple))
	require.Equal(t, RejectNone, b.AddRule("configFiles", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Cfg`), []string{"*.txt", "*.cfg"}, Simple))

	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	container, ok := store.RulesForOrigin(mustPath(t, `C:\Game\Saves`))
	require.True(t, ok)
	require.Equal(t, 3, container.Len())

	rules := container.Rules()
	assert.Equal(t, "configFiles", rules[0].Name())
	assert.Equal(t, "textFiles", rules[1].Name())
	assert.Equal(t, "catchAll", rules[2].Name())

	rule, matched := container.FirstMatch("save.txt")
	require.True(t, matched)
	assert.Equal(t, "configFiles", rule.Name())

	rule, matched = container.FirstMatch("save.dat")
	require.True(t, matched)
	assert.Equal(t, "catchAll", rule.Name())
}

func TestFilesystemDirector_ClassifyPath(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	b := NewBuilder()
	require.Equal(t, RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target`), nil, Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	kind, rule, ok := store.ClassifyPath(mustPath(t, `C:\Game\Saves`))
	require.True(t, ok)
	assert.Equal(t, IsOrigin, kind)
	assert.Equal(t, "r1", rule.Name())

	kind, _, ok = store.ClassifyPath(mustPath(t, `C:\Game\Saves\slot1.sav`))
	require.True(t, ok)
	assert.Equal(t, IsDescendantOfOrigin, kind)

	kind, _, ok = store.ClassifyPath(mustPath(t, `C:\Game`))
	assert.False(t, ok)
	assert.Equal(t, IsAncestorOfOrigin, kind)

	kind, _, ok = store.ClassifyPath(mustPath(t, `D:\Target`))
	require.True(t, ok)
	assert.Equal(t, IsTarget, kind)

	kind, _, _ = store.ClassifyPath(mustPath(t, `E:\Unrelated`))
	assert.Equal(t, NotCovered, kind)

	targeting := store.RulesTargetingDirectory(mustPath(t, `D:\Target`))
	require.Len(t, targeting, 1)
	assert.Equal(t, "r1", targeting[0].Name())
}
