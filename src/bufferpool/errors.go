package bufferpool

import (
	"errors"
	"fmt"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

// ErrBufferExceeded is returned when the clock sweep finds no evictable frame
// after two full revolutions: the entire pool is pinned.
var ErrBufferExceeded = errors.New("buffer pool exceeded: all frames are pinned")

// PageNotPinnedError reports an unpin of a frame whose pin count is already
// zero. This is a client bug.
type PageNotPinnedError struct {
	Filename string
	PageNo   common.PageID
	FrameNo  common.FrameID
}

func (e *PageNotPinnedError) Error() string {
	return fmt.Sprintf(
		"page %d of %s (frame %d) is not pinned",
		e.PageNo, e.Filename, e.FrameNo,
	)
}

// PagePinnedError reports a FlushFile that ran into a still-pinned frame of
// the target file.
type PagePinnedError struct {
	Filename string
	PageNo   common.PageID
	FrameNo  common.FrameID
}

func (e *PagePinnedError) Error() string {
	return fmt.Sprintf(
		"page %d of %s (frame %d) is still pinned",
		e.PageNo, e.Filename, e.FrameNo,
	)
}

// BadBufferError reports a descriptor that names the flushed file but is not
// valid: an invariant violation.
type BadBufferError struct {
	FrameNo common.FrameID
	Dirty   bool
	Valid   bool
	Refbit  bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf(
		"bad buffer state at frame %d: dirty=%v valid=%v refbit=%v",
		e.FrameNo, e.Dirty, e.Valid, e.Refbit,
	)
}
