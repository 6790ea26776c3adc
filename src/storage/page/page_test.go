package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmbedsPageNumber(t *testing.T) {
	p := New(42)

	assert.EqualValues(t, 42, p.PageNumber())
	assert.Len(t, p.GetData(), PageSize)
	assert.Len(t, p.Data(), DataSize)
}

func TestSetData_PreservesPageNumber(t *testing.T) {
	p := New(7)
	copy(p.Data(), []byte("payload"))

	clone := &Page{}
	clone.SetData(p.GetData())

	require.EqualValues(t, 7, clone.PageNumber())
	assert.Equal(t, p.GetData(), clone.GetData())
}

func TestData_IsWritableThrough(t *testing.T) {
	p := New(0)
	copy(p.Data(), []byte("abc"))

	assert.Equal(t, []byte("abc"), p.Data()[:3])
}
