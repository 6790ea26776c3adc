package page

import (
	"encoding/binary"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

const (
	// PageSize is the on-disk and in-frame size of every page.
	PageSize = 4096

	// headerSize bytes at the front of the payload hold the page's own number,
	// so a page read back from disk knows its identity.
	headerSize = 8

	// DataSize is the number of payload bytes available to clients.
	DataSize = PageSize - headerSize
)

// Page is a fixed-size page. The first headerSize bytes of the buffer carry
// the page number in big endian; the rest is client payload.
type Page struct {
	buf [PageSize]byte
}

func New(pageNo common.PageID) *Page {
	p := &Page{}
	binary.BigEndian.PutUint64(p.buf[:headerSize], uint64(pageNo))

	return p
}

func (p *Page) PageNumber() common.PageID {
	return common.PageID(binary.BigEndian.Uint64(p.buf[:headerSize]))
}

// Data is the client-visible payload. Mutating it is legal only while the
// caller holds a pin on the frame the page lives in.
func (p *Page) Data() []byte {
	return p.buf[headerSize:]
}

func (p *Page) GetData() []byte {
	return p.buf[:]
}

func (p *Page) SetData(d []byte) {
	copy(p.buf[:], d)
}
