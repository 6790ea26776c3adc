package bufferpool

import (
	"github.com/stretchr/testify/mock"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

type MockFile struct {
	mock.Mock
}

var _ disk.File = &MockFile{}

func (f *MockFile) ReadPage(pageNo common.PageID) (*page.Page, error) {
	args := f.Called(pageNo)
	if pg := args.Get(0); pg != nil {
		return pg.(*page.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (f *MockFile) WritePage(pg *page.Page) error {
	args := f.Called(pg)
	return args.Error(0)
}

func (f *MockFile) AllocatePage() (*page.Page, error) {
	args := f.Called()
	if pg := args.Get(0); pg != nil {
		return pg.(*page.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (f *MockFile) DeletePage(pageNo common.PageID) error {
	args := f.Called(pageNo)
	return args.Error(0)
}

func (f *MockFile) Filename() string {
	args := f.Called()
	return args.String(0)
}
