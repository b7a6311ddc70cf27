package handleregistry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelgr/pathwinder/internal/decision"
	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/fsops/fake"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

func mustPath(t *testing.T, raw string) pwpath.Path {
	t.Helper()
	p, ok := pwpath.New(raw)
	require.True(t, ok, raw)
	return p
}

func TestRegistry_InsertGetRemove(t *testing.T) {
	r := New()
	h := fsops.Handle(1)
	rec := Record{AssociatedPath: mustPath(t, `C:\Game\Saves`), Instruction: decision.Instruction{Kind: decision.KindPassThrough}}

	r.Insert(h, rec)
	got, ok := r.Get(h)
	require.True(t, ok)
	assert.True(t, got.AssociatedPath.Equal(rec.AssociatedPath))

	r.Remove(h)
	_, ok = r.Get(h)
	assert.False(t, ok)
}

func TestRegistry_AssociateEnumeration_NoOpWhenUnregistered(t *testing.T) {
	r := New()
	r.AssociateEnumeration(fsops.Handle(42), nil)
	_, ok := r.Get(fsops.Handle(42))
	assert.False(t, ok)
}

func TestRegistry_CloseAndRemove_ClosesViaFacadeAndForgetsHandle(t *testing.T) {
	facade := fake.New()
	facade.AddDirectory(mustPath(t, `C:\Game\Saves`))

	h, status := facade.OpenDirectoryForEnumeration(context.Background(), mustPath(t, `C:\Game\Saves`))
	require.Equal(t, pwstatus.Success, status)

	r := New()
	r.Insert(h, Record{AssociatedPath: mustPath(t, `C:\Game\Saves`)})

	status = r.CloseAndRemove(context.Background(), h, facade)
	assert.Equal(t, pwstatus.Success, status)

	_, ok := r.Get(h)
	assert.False(t, ok)

	// Closing again through the facade directly should now fail: the
	// handle is gone.
	status = facade.CloseHandle(context.Background(), h)
	assert.Equal(t, pwstatus.InvalidHandle, status)
}

func TestRegistry_CloseAndRemove_RetainsRecordWhenCloseFails(t *testing.T) {
	facade := fake.New()
	h := fsops.Handle(999) // never opened through facade, so CloseHandle fails.

	r := New()
	rec := Record{AssociatedPath: mustPath(t, `C:\Game\Saves`)}
	r.Insert(h, rec)

	status := r.CloseAndRemove(context.Background(), h, facade)
	assert.Equal(t, pwstatus.InvalidHandle, status)

	got, ok := r.Get(h)
	require.True(t, ok, "record must be retained when the platform close fails")
	assert.True(t, got.AssociatedPath.Equal(rec.AssociatedPath))
}
