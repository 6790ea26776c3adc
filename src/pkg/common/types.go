package common

// PageID identifies a page within a single file.
type PageID uint64

// FrameID identifies a slot of the buffer pool's frame array.
type FrameID uint64

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
