package pwpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NormalizesDotSegments(t *testing.T) {
	p, ok := New(`C:\Users\.\alice\..\bob\Documents`)
	require.True(t, ok)
	assert.Equal(t, `C:\bob\Documents`, p.String())
}

func TestNew_RejectsRootOnly(t *testing.T) {
	_, ok := New(`C:\`)
	assert.False(t, ok)
}

func TestNew_RecognizesNamespacePrefixes(t *testing.T) {
	p, ok := New(`\??\C:\Windows\System32`)
	require.True(t, ok)
	assert.Equal(t, `\??\`, p.Prefix())
	assert.Equal(t, []string{"Windows", "System32"}, p.Components())
}

func TestEqual_IsCaseInsensitive(t *testing.T) {
	a := MustNew(`C:\Program Files\App`)
	b := MustNew(`c:\PROGRAM FILES\app`)
	assert.True(t, a.Equal(b))
}

func TestRelationTo(t *testing.T) {
	ancestor := MustNew(`C:\Games`)
	descendant := MustNew(`C:\Games\Foo\Saves`)
	unrelated := MustNew(`C:\Other`)

	assert.Equal(t, Ancestor, ancestor.RelationTo(descendant))
	assert.Equal(t, Descendant, descendant.RelationTo(ancestor))
	assert.Equal(t, Same, ancestor.RelationTo(ancestor))
	assert.Equal(t, Unrelated, ancestor.RelationTo(unrelated))
}

func TestWithNewBase(t *testing.T) {
	p := MustNew(`C:\Games\Foo\Saves\slot1.sav`)
	oldBase := MustNew(`C:\Games\Foo`)
	newBase := MustNew(`D:\Redirected\Foo`)

	result, ok := p.WithNewBase(oldBase, newBase)
	require.True(t, ok)
	assert.Equal(t, `D:\Redirected\Foo\Saves\slot1.sav`, result.String())
}

func TestWithNewBase_NotAnAncestor(t *testing.T) {
	p := MustNew(`C:\Other\file.txt`)
	_, ok := p.WithNewBase(MustNew(`C:\Games`), MustNew(`D:\Target`))
	assert.False(t, ok)
}

func TestParentAndLeaf(t *testing.T) {
	p := MustNew(`C:\a\b\c`)
	leaf := p.Leaf()
	assert.Equal(t, "c", leaf)

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, `C:\a\b`, parent.String())
}
