package bufferpool

import (
	"fmt"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
)

// bufDesc is the metadata record paired 1:1 with a frame of the pool.
// file and pageNo are meaningful only while valid is set.
type bufDesc struct {
	frameNo common.FrameID
	file    disk.File
	pageNo  common.PageID
	pinCnt  uint32
	dirty   bool
	valid   bool
	refbit  bool
}

// set transitions a cleared descriptor into the occupied state with one pin
// held by the caller.
func (d *bufDesc) set(file disk.File, pageNo common.PageID) {
	d.file = file
	d.pageNo = pageNo
	d.pinCnt = 1
	d.dirty = false
	d.valid = true
	d.refbit = true
}

// clear resets the descriptor to the unoccupied state. The file handle is
// dropped so a cleared descriptor can never match a FlushFile target.
func (d *bufDesc) clear() {
	d.file = nil
	d.pageNo = 0
	d.pinCnt = 0
	d.dirty = false
	d.valid = false
	d.refbit = false
}

func (d *bufDesc) String() string {
	filename := "<none>"
	if d.file != nil {
		filename = d.file.Filename()
	}

	return fmt.Sprintf(
		"file:%s pageNo:%d pinCnt:%d dirty:%v valid:%v refbit:%v",
		filename, d.pageNo, d.pinCnt, d.dirty, d.valid, d.refbit,
	)
}
