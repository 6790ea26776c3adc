package disk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

var ErrNoSuchPage = errors.New("no such page")

// File is a paged file store. The buffer pool treats File values as opaque
// handles with stable identity: two handles opened on the same path are
// distinct namespaces.
type File interface {
	ReadPage(pageNo common.PageID) (*page.Page, error)
	WritePage(pg *page.Page) error
	AllocatePage() (*page.Page, error)
	DeletePage(pageNo common.PageID) error
	Filename() string
}

// PagedFile stores fixed-size pages at offset pageNo*PageSize of a single
// backing file. The filesystem is injected so tests can run on a memory fs.
type PagedFile struct {
	fs   afero.Fs
	path string

	mu       sync.Mutex
	numPages common.PageID
	// freed pages are reusable by AllocatePage. The set is not persisted:
	// a reopened file allocates past its previous end instead of reusing holes.
	// TODO persist the free list in a file header page
	free map[common.PageID]struct{}
}

var _ File = &PagedFile{}

// Open opens the paged file at path, creating it if absent.
func Open(fs afero.Fs, path string) (*PagedFile, error) {
	f, err := fs.OpenFile(filepath.Clean(path), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	if info.Size()%page.PageSize != 0 {
		return nil, fmt.Errorf(
			"file %s size %d is not a multiple of the page size",
			path,
			info.Size(),
		)
	}

	return &PagedFile{
		fs:       fs,
		path:     path,
		numPages: common.PageID(info.Size() / page.PageSize),
		free:     map[common.PageID]struct{}{},
	}, nil
}

func (pf *PagedFile) Filename() string {
	return pf.path
}

// NumPages reports how many pages the file spans, freed pages included.
func (pf *PagedFile) NumPages() common.PageID {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	return pf.numPages
}

func (pf *PagedFile) ReadPage(pageNo common.PageID) (*page.Page, error) {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	if pageNo >= pf.numPages {
		return nil, ErrNoSuchPage
	}
	if _, freed := pf.free[pageNo]; freed {
		return nil, ErrNoSuchPage
	}

	f, err := pf.fs.Open(filepath.Clean(pf.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", pf.path, err)
	}
	defer f.Close()

	data := make([]byte, page.PageSize)
	//nolint:gosec
	if _, err := f.ReadAt(data, int64(pageNo)*page.PageSize); err != nil {
		return nil, fmt.Errorf("failed to read page %d of %s: %w", pageNo, pf.path, err)
	}

	pg := &page.Page{}
	pg.SetData(data)

	return pg, nil
}

func (pf *PagedFile) WritePage(pg *page.Page) error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	return pf.writePageLocked(pg)
}

func (pf *PagedFile) writePageLocked(pg *page.Page) error {
	pageNo := pg.PageNumber()
	if pageNo >= pf.numPages {
		return ErrNoSuchPage
	}

	f, err := pf.fs.OpenFile(filepath.Clean(pf.path), os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", pf.path, err)
	}
	defer f.Close()

	//nolint:gosec
	if _, err := f.WriteAt(pg.GetData(), int64(pageNo)*page.PageSize); err != nil {
		return fmt.Errorf("failed to write page %d of %s: %w", pageNo, pf.path, err)
	}

	return nil
}

// AllocatePage picks a fresh page number, materializes a zeroed page at it
// and returns the page. Freed page numbers are reused before the file grows.
func (pf *PagedFile) AllocatePage() (*page.Page, error) {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	var pageNo common.PageID
	reused := false
	for freed := range pf.free {
		pageNo = freed
		reused = true
		break
	}

	if !reused {
		pageNo = pf.numPages
		pf.numPages++
	}

	pg := page.New(pageNo)
	if err := pf.writePageLocked(pg); err != nil {
		if !reused {
			pf.numPages--
		}
		return nil, err
	}

	if reused {
		delete(pf.free, pageNo)
	}

	return pg, nil
}

func (pf *PagedFile) DeletePage(pageNo common.PageID) error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	if pageNo >= pf.numPages {
		return ErrNoSuchPage
	}
	if _, freed := pf.free[pageNo]; freed {
		return ErrNoSuchPage
	}

	pf.free[pageNo] = struct{}{}

	return nil
}
