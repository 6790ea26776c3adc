package app

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/FrameDB/src/bufferpool"
	"github.com/Blackdeer1524/FrameDB/src/pkg/utils"
	"github.com/Blackdeer1524/FrameDB/src/storage/disk"
)

// App wires the buffer pool, the filesystem and the logger together for the
// CLI. The library itself has no global state; everything hangs off this
// struct.
type App struct {
	Env  envVars
	Log  *zap.SugaredLogger
	Pool *bufferpool.Manager

	fs afero.Fs
}

func New(fs afero.Fs) *App {
	return &App{fs: fs}
}

func (a *App) Init() error {
	a.Env = mustLoadEnv()

	if a.Env.Environment == EnvDev {
		a.Log = utils.Must(zap.NewDevelopment()).Sugar()
	} else {
		a.Log = utils.Must(zap.NewProduction()).Sugar()
	}

	if err := a.fs.MkdirAll(a.Env.DataDir, 0700); err != nil {
		return err
	}

	a.Pool = bufferpool.New(a.Env.PoolSize, bufferpool.WithLogger(a.Log))

	a.Log.Infof(
		"buffer pool initialized: %d frames, data dir %s",
		a.Env.PoolSize,
		a.Env.DataDir,
	)

	return nil
}

// OpenFile opens a paged file inside the data dir, creating it if absent.
func (a *App) OpenFile(name string) (*disk.PagedFile, error) {
	return disk.Open(a.fs, filepath.Join(a.Env.DataDir, name))
}

func (a *App) Close() (err error) {
	if a.Pool != nil {
		err = a.Pool.Close()
	}

	if a.Log != nil {
		if err != nil {
			a.Log.Errorf("failed to close buffer pool: %v", err)
		}

		logErr := a.Log.Sync()
		if logErr != nil {
			err = errors.Join(err, logErr)
		}
	}

	return err
}
