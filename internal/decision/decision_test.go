package decision

import (
	"context"
	"testing"
	"time"

	"github.com/jacobsa/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/fsops/fake"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

func mustPath(t *testing.T, raw string) pwpath.Path {
	t.Helper()
	p, ok := pwpath.New(raw)
	require.True(t, ok, raw)
	return p
}

func newClock(t *testing.T) *timeutil.SimulatedClock {
	t.Helper()
	c := &timeutil.SimulatedClock{}
	c.SetTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return c
}

// "Entire-directory replacement" (spec §8): a Simple rule with no file
// patterns redirects every path under its origin.
func TestDecide_SimpleRule_RedirectsEntireDirectory(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target`), nil, rulestore.Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Saves\slot1.sav`), Open, fsops.AccessReadOnly, nil)
	require.Equal(t, KindRedirect, inst.Kind)
	assert.Equal(t, `D:\Target\slot1.sav`, inst.RealPath.String())
}

// "Partial replacement with pattern" (spec §8): only matching names redirect.
func TestDecide_PartialReplacement_UnmatchedNameFallsThroughToCatchAll(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("txt", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Text`), []string{"*.txt"}, rulestore.Simple))
	require.Equal(t, rulestore.RejectNone, b.AddRule("all", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\All`), nil, rulestore.Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Saves\notes.txt`), Open, fsops.AccessReadOnly, nil)
	assert.Equal(t, `D:\Text\notes.txt`, inst.RealPath.String())

	inst = Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Saves\save.dat`), Open, fsops.AccessReadOnly, nil)
	assert.Equal(t, `D:\All\save.dat`, inst.RealPath.String())
}

// "Overlay without patterns" (spec §8): open tries the target first, falls
// back to the origin.
func TestDecide_Overlay_TryRedirectThenFallback(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target`), nil, rulestore.Overlay))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Saves\save.dat`), Open, fsops.AccessReadOnly, nil)
	require.Equal(t, KindTryRedirectThenFallback, inst.Kind)
	assert.Equal(t, `D:\Target\save.dat`, inst.FallbackTarget.String())
	assert.Equal(t, `C:\Game\Saves\save.dat`, inst.FallbackOrigin.String())

	// Create always redirects straight to the target, creating missing
	// parents along the way.
	inst = Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Saves\new.dat`), Create, fsops.AccessReadWrite, nil)
	require.Equal(t, KindRedirect, inst.Kind)
	assert.True(t, inst.CreateMissingParents)
}

// "Deep illusionary hierarchy" (spec §8): an ancestor of an origin
// directory that has no real counterpart is synthesized as a directory.
func TestDecide_IllusionaryAncestor_SynthesizesDirectory(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `D:\Target`))

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Mods\Data`), mustPath(t, `D:\Target`), nil, rulestore.Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Mods`), Open, fsops.AccessReadOnly, nil)
	require.Equal(t, KindSynthesize, inst.Kind)
	assert.Equal(t, SynthesizeDirectory, inst.Synthesize)
	assert.False(t, inst.SynthesizedTime.IsZero())
}

func TestDecide_IllusionaryAncestor_NotFoundWhenNoDominatedTargetExists(t *testing.T) {
	facade := fake.New()

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Mods\Data`), mustPath(t, `D:\Target`), nil, rulestore.Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Mods`), Open, fsops.AccessReadOnly, nil)
	assert.Equal(t, SynthesizeNotFound, inst.Synthesize)
}

// An ancestor of an origin directory that already exists on the real
// filesystem is not illusionary at all: its real contents should pass
// through untouched rather than being synthesized over.
func TestDecide_IllusionaryAncestor_PassesThroughWhenAncestorExists(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Mods`))
	facade.AddDirectory(mustPath(t, `D:\Target`))

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Mods\Data`), mustPath(t, `D:\Target`), nil, rulestore.Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Game\Mods`), Open, fsops.AccessReadOnly, nil)
	require.Equal(t, KindPassThrough, inst.Kind)
	assert.Equal(t, `C:\Game\Mods`, inst.RealPath.String())
}

// "Root-handle path composition" (spec §8).
func TestDecide_ComposesUnderHandle(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	b := rulestore.NewBuilder()
	require.Equal(t, rulestore.RejectNone, b.AddRule("r1", mustPath(t, `C:\Game\Saves`), mustPath(t, `D:\Target`), nil, rulestore.Simple))
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	handle := &HandleContext{AssociatedPath: mustPath(t, `C:\Game\Saves`)}
	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `slot1.sav`), Open, fsops.AccessReadOnly, handle)
	assert.Equal(t, `D:\Target\slot1.sav`, inst.RealPath.String())
}

func TestDecide_NotCovered_PassesThrough(t *testing.T) {
	facade := fake.New()
	b := rulestore.NewBuilder()
	store, violations := b.Finalize(context.Background(), facade)
	require.Empty(t, violations)

	inst := Decide(context.Background(), store, facade, newClock(t), mustPath(t, `C:\Unrelated\file.txt`), Open, fsops.AccessReadOnly, nil)
	assert.Equal(t, KindPassThrough, inst.Kind)
}
