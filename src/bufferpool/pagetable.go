package bufferpool

import (
	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
)

// pageKey identifies a buffered page by file handle identity, not filename:
// two handles opened on the same path are distinct namespaces.
type pageKey struct {
	file   disk.File
	pageNo common.PageID
}

// pageTable maps buffered pages to the frames holding them. A given key
// resides in at most one frame at any time.
type pageTable struct {
	entries map[pageKey]common.FrameID
}

func newPageTable(numBufs uint32) *pageTable {
	// sized ~1.2x the pool so a full pool never rehashes
	return &pageTable{
		entries: make(map[pageKey]common.FrameID, numBufs+numBufs/5+1),
	}
}

func (t *pageTable) lookup(file disk.File, pageNo common.PageID) (common.FrameID, bool) {
	frameNo, ok := t.entries[pageKey{file: file, pageNo: pageNo}]
	return frameNo, ok
}

func (t *pageTable) insert(file disk.File, pageNo common.PageID, frameNo common.FrameID) {
	key := pageKey{file: file, pageNo: pageNo}

	_, ok := t.entries[key]
	assert.Assert(!ok, "page %d is already buffered in frame %d", pageNo, t.entries[key])

	t.entries[key] = frameNo
}

func (t *pageTable) remove(file disk.File, pageNo common.PageID) {
	key := pageKey{file: file, pageNo: pageNo}

	_, ok := t.entries[key]
	assert.Assert(ok, "page %d is not buffered", pageNo)

	delete(t.entries, key)
}

func (t *pageTable) len() int {
	return len(t.entries)
}
