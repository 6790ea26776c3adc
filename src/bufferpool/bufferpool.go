package bufferpool

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Blackdeer1524/FrameDB/src/pkg/assert"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

// Stats are monotonic counters, observability only.
type Stats struct {
	// Accesses counts second chances granted by the clock sweep (refbit
	// clears), not page hits.
	Accesses   uint64
	DiskReads  uint64
	DiskWrites uint64
}

// Manager is a fixed-size page cache between access methods and paged files.
// Frames are recycled with a clock sweep; a pinned frame is never evicted and
// a dirty frame is never evicted without being written back first.
//
// All operations execute under one pool-wide lock. Pins are the only state
// that crosses calls: a page reference returned by ReadPage or AllocPage
// stays valid until the matching UnpinPage.
type Manager struct {
	numBufs uint32

	mu        sync.Mutex
	frames    []page.Page
	descTable []bufDesc
	table     *pageTable
	clockHand common.FrameID
	stats     Stats

	log common.Logger
}

type Option func(*Manager)

func WithLogger(log common.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

func New(numBufs uint32, opts ...Option) *Manager {
	assert.Assert(numBufs > 0, "pool size must be greater than zero")

	m := &Manager{
		numBufs:   numBufs,
		frames:    make([]page.Page, numBufs),
		descTable: make([]bufDesc, numBufs),
		table:     newPageTable(numBufs),
		clockHand: common.FrameID(numBufs - 1),
		log:       common.DummyLogger(),
	}

	for i := range m.descTable {
		m.descTable[i].frameNo = common.FrameID(i)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) advanceClock() {
	m.clockHand = (m.clockHand + 1) % common.FrameID(m.numBufs)
}

// allocBuf runs the clock sweep and hands out an empty, ready-to-fill frame.
//
// Each step advances the hand and applies exactly one rule to the descriptor
// under it: an invalid frame is taken immediately; a set refbit is cleared
// and the frame spared for one more revolution; a pinned frame is skipped; an
// unpinned frame with a cleared refbit becomes the victim. The sweep gives up
// with ErrBufferExceeded after two full revolutions, since a frame spared on
// the first pass may only become evictable on the second.
//
// A dirty victim is written back before its frame is recycled. If the
// writeback fails, the error is returned and the victim keeps its frame,
// descriptor and table entry untouched.
func (m *Manager) allocBuf() (common.FrameID, error) {
	for spins := uint32(0); spins < 2*m.numBufs; spins++ {
		m.advanceClock()

		desc := &m.descTable[m.clockHand]
		if !desc.valid {
			return desc.frameNo, nil
		}

		if desc.refbit {
			desc.refbit = false
			m.stats.Accesses++
			continue
		}

		if desc.pinCnt > 0 {
			continue
		}

		if desc.dirty {
			if err := desc.file.WritePage(&m.frames[desc.frameNo]); err != nil {
				return 0, fmt.Errorf(
					"failed to write back page %d of %s: %w",
					desc.pageNo, desc.file.Filename(), err,
				)
			}
			m.stats.DiskWrites++
			m.log.Debugf(
				"evicted dirty page %d of %s from frame %d",
				desc.pageNo, desc.file.Filename(), desc.frameNo,
			)
		}

		// the table entry goes before the descriptor is cleared so no lookup
		// can observe a mapping to a recycled frame
		m.table.remove(desc.file, desc.pageNo)
		desc.clear()

		return desc.frameNo, nil
	}

	return 0, ErrBufferExceeded
}

// ReadPage pins the page in the pool, loading it from file on a miss. The
// caller owns one pin on the returned page and must release it with
// UnpinPage. The returned pointer is valid only while the pin is held.
func (m *Manager) ReadPage(file disk.File, pageNo common.PageID) (*page.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameNo, ok := m.table.lookup(file, pageNo); ok {
		desc := &m.descTable[frameNo]
		desc.refbit = true
		desc.pinCnt++

		return &m.frames[frameNo], nil
	}

	frameNo, err := m.allocBuf()
	if err != nil {
		return nil, err
	}

	pg, err := file.ReadPage(pageNo)
	if err != nil {
		return nil, err
	}

	m.frames[frameNo] = *pg
	m.stats.DiskReads++

	m.table.insert(file, pageNo, frameNo)
	m.descTable[frameNo].set(file, pageNo)

	return &m.frames[frameNo], nil
}

// AllocPage asks file for a fresh page and pins it. Unlike ReadPage there is
// no table probe first: the page number is new by construction, and the pool
// trusts the file never to hand out a number that is still buffered.
func (m *Manager) AllocPage(file disk.File) (common.PageID, *page.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pg, err := file.AllocatePage()
	if err != nil {
		return 0, nil, err
	}

	frameNo, err := m.allocBuf()
	if err != nil {
		return 0, nil, err
	}

	m.frames[frameNo] = *pg
	pageNo := pg.PageNumber()

	m.table.insert(file, pageNo, frameNo)
	m.descTable[frameNo].set(file, pageNo)

	return pageNo, &m.frames[frameNo], nil
}

// UnpinPage releases one pin. With dirty set, the frame is marked dirty; the
// mark is sticky and cleared only by writeback. Unpinning a page that is not
// buffered is a no-op.
func (m *Manager) UnpinPage(file disk.File, pageNo common.PageID, dirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameNo, ok := m.table.lookup(file, pageNo)
	if !ok {
		return nil
	}

	desc := &m.descTable[frameNo]
	if dirty {
		desc.dirty = true
	}

	if desc.pinCnt == 0 {
		return &PageNotPinnedError{
			Filename: file.Filename(),
			PageNo:   pageNo,
			FrameNo:  frameNo,
		}
	}
	desc.pinCnt--

	return nil
}

// FlushFile writes back every dirty frame of file and drops all of file's
// frames from the pool. A pinned frame aborts the flush with PagePinnedError;
// an invalid descriptor still naming the file aborts with BadBufferError.
// Frames processed before the failing one stay flushed and cleared.
func (m *Manager) FlushFile(file disk.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.descTable {
		desc := &m.descTable[i]
		if desc.file != file {
			continue
		}

		if !desc.valid {
			return &BadBufferError{
				FrameNo: desc.frameNo,
				Dirty:   desc.dirty,
				Valid:   desc.valid,
				Refbit:  desc.refbit,
			}
		}

		if desc.pinCnt > 0 {
			return &PagePinnedError{
				Filename: file.Filename(),
				PageNo:   desc.pageNo,
				FrameNo:  desc.frameNo,
			}
		}

		if desc.dirty {
			if err := file.WritePage(&m.frames[desc.frameNo]); err != nil {
				return fmt.Errorf(
					"failed to write back page %d of %s: %w",
					desc.pageNo, file.Filename(), err,
				)
			}
			desc.dirty = false
		}

		m.table.remove(file, desc.pageNo)
		desc.clear()
	}

	return nil
}

// DisposePage drops the page from the pool without writing it back (it is
// about to cease to exist) and deletes it from the file. Disposing a page
// that is not buffered still deletes it from the file.
func (m *Manager) DisposePage(file disk.File, pageNo common.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameNo, ok := m.table.lookup(file, pageNo); ok {
		m.descTable[frameNo].clear()
		m.table.remove(file, pageNo)
	}

	return file.DeletePage(pageNo)
}

// FlushAll writes back every unpinned dirty frame, keeping all frames
// resident. Pinned frames are skipped. Writeback failures are collected and
// the flush keeps going.
func (m *Manager) FlushAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for i := range m.descTable {
		desc := &m.descTable[i]
		if !desc.valid || !desc.dirty || desc.pinCnt > 0 {
			continue
		}

		if err := desc.file.WritePage(&m.frames[desc.frameNo]); err != nil {
			errs = errors.Join(errs, fmt.Errorf(
				"failed to write back page %d of %s: %w",
				desc.pageNo, desc.file.Filename(), err,
			))
			continue
		}
		desc.dirty = false
	}

	return errs
}

// Close writes back every valid dirty frame and releases the pool. Writeback
// failures are logged and joined into the returned error but never stop the
// remaining writebacks.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for i := range m.descTable {
		desc := &m.descTable[i]
		if !desc.valid || !desc.dirty {
			continue
		}

		if err := desc.file.WritePage(&m.frames[desc.frameNo]); err != nil {
			m.log.Errorf(
				"writeback of page %d of %s (frame %d) failed on close: %v",
				desc.pageNo, desc.file.Filename(), desc.frameNo, err,
			)
			errs = errors.Join(errs, err)
		}
	}

	m.frames = nil
	m.descTable = nil
	m.table = nil

	return errs
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}

// PrintSelf dumps the descriptor table to w.
func (m *Manager) PrintSelf(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	validFrames := 0
	for i := range m.descTable {
		desc := &m.descTable[i]
		fmt.Fprintf(w, "FrameNo:%d %s\n", desc.frameNo, desc)
		if desc.valid {
			validFrames++
		}
	}

	fmt.Fprintf(w, "Total Number of Valid Frames:%d\n", validFrames)
}
