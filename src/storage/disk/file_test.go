package disk

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

func TestOpen_CreatesEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "data/test.db")
	require.NoError(t, err)

	assert.EqualValues(t, 0, f.NumPages())
	assert.Equal(t, "data/test.db", f.Filename())
}

func TestAllocatePage_NumbersPagesSequentially(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "test.db")
	require.NoError(t, err)

	first, err := f.AllocatePage()
	require.NoError(t, err)
	second, err := f.AllocatePage()
	require.NoError(t, err)

	assert.EqualValues(t, 0, first.PageNumber())
	assert.EqualValues(t, 1, second.PageNumber())
	assert.EqualValues(t, 2, f.NumPages())
}

func TestWriteReadRoundtrip(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "test.db")
	require.NoError(t, err)

	pg, err := f.AllocatePage()
	require.NoError(t, err)
	copy(pg.Data(), []byte("hello pages"))
	require.NoError(t, f.WritePage(pg))

	got, err := f.ReadPage(pg.PageNumber())
	require.NoError(t, err)

	assert.Equal(t, pg.GetData(), got.GetData())
	assert.Equal(t, pg.PageNumber(), got.PageNumber())
}

func TestReadPage_OutOfRange(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "test.db")
	require.NoError(t, err)

	_, err = f.ReadPage(3)
	assert.ErrorIs(t, err, ErrNoSuchPage)
}

func TestDeletePage_ThenRead(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "test.db")
	require.NoError(t, err)

	pg, err := f.AllocatePage()
	require.NoError(t, err)

	require.NoError(t, f.DeletePage(pg.PageNumber()))

	_, err = f.ReadPage(pg.PageNumber())
	assert.ErrorIs(t, err, ErrNoSuchPage)

	err = f.DeletePage(pg.PageNumber())
	assert.ErrorIs(t, err, ErrNoSuchPage)
}

func TestAllocatePage_ReusesDeletedPages(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "test.db")
	require.NoError(t, err)

	first, err := f.AllocatePage()
	require.NoError(t, err)
	_, err = f.AllocatePage()
	require.NoError(t, err)

	require.NoError(t, f.DeletePage(first.PageNumber()))

	reused, err := f.AllocatePage()
	require.NoError(t, err)

	assert.Equal(t, first.PageNumber(), reused.PageNumber())
	assert.EqualValues(t, 2, f.NumPages())
}

func TestOpen_ExistingFileKeepsPages(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := Open(fs, "test.db")
	require.NoError(t, err)

	pg, err := f.AllocatePage()
	require.NoError(t, err)
	copy(pg.Data(), []byte("persisted"))
	require.NoError(t, f.WritePage(pg))

	reopened, err := Open(fs, "test.db")
	require.NoError(t, err)

	assert.EqualValues(t, 1, reopened.NumPages())

	got, err := reopened.ReadPage(pg.PageNumber())
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got.Data()[:len("persisted")])
}

func TestOpen_RejectsTornFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "torn.db", make([]byte, page.PageSize+1), 0600))

	_, err := Open(fs, "torn.db")
	assert.Error(t, err)
}
