package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Blackdeer1524/FrameDB/src/app"
	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
)

func main() {
	root := &cobra.Command{
		Use:          "framedb",
		Short:        "clock-sweep buffer pool playground",
		SilenceUsage: true,
	}

	root.AddCommand(newBenchCmd())
	root.AddCommand(newDumpCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newBenchCmd() *cobra.Command {
	var (
		filePages int
		workers   int
		ops       int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "drive a concurrent read workload through the pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(afero.NewOsFs())
			if err := a.Init(); err != nil {
				return err
			}
			defer a.Close()

			name := fmt.Sprintf("bench-%s.db", uuid.NewString())
			file, err := a.OpenFile(name)
			if err != nil {
				return err
			}

			a.Log.Infof("filling %s with %d pages", file.Filename(), filePages)

			pageNos := make([]common.PageID, 0, filePages)
			for i := 0; i < filePages; i++ {
				pageNo, pg, err := a.Pool.AllocPage(file)
				if err != nil {
					return err
				}
				copy(pg.Data(), fmt.Sprintf("page %d", pageNo))
				if err := a.Pool.UnpinPage(file, pageNo, true); err != nil {
					return err
				}
				pageNos = append(pageNos, pageNo)
			}
			if err := a.Pool.FlushFile(file); err != nil {
				return err
			}

			a.Log.Infof("running %d ops on %d workers", ops, workers)

			pool, err := ants.NewPool(workers)
			if err != nil {
				return err
			}
			defer pool.Release()

			var (
				wg       sync.WaitGroup
				errOnce  sync.Once
				firstErr error
			)
			for i := 0; i < ops; i++ {
				op := i
				wg.Add(1)
				submitErr := pool.Submit(func() {
					defer wg.Done()

					pageNo := pageNos[(op*7)%len(pageNos)]
					pg, err := a.Pool.ReadPage(file, pageNo)
					if err != nil {
						errOnce.Do(func() { firstErr = err })
						return
					}
					_ = pg.Data()[0]

					if err := a.Pool.UnpinPage(file, pageNo, false); err != nil {
						errOnce.Do(func() { firstErr = err })
					}
				})
				if submitErr != nil {
					wg.Done()
					return submitErr
				}
			}
			wg.Wait()
			if firstErr != nil {
				return firstErr
			}

			// re-read everything once more, bounded by the worker count
			var g errgroup.Group
			g.SetLimit(workers)
			for _, pageNo := range pageNos {
				pageNo := pageNo
				g.Go(func() error {
					if _, err := a.Pool.ReadPage(file, pageNo); err != nil {
						return err
					}
					return a.Pool.UnpinPage(file, pageNo, false)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			stats := a.Pool.Stats()
			a.Log.Infof(
				"done: accesses=%d diskreads=%d diskwrites=%d",
				stats.Accesses,
				stats.DiskReads,
				stats.DiskWrites,
			)

			return nil
		},
	}

	cmd.Flags().IntVar(&filePages, "file-pages", 256, "pages in the scratch file")
	cmd.Flags().IntVar(&workers, "workers", 8, "concurrent workers")
	cmd.Flags().IntVar(&ops, "ops", 5000, "total read operations")

	return cmd
}

func newDumpCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "load a few pages of a file and print the descriptor table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(afero.NewOsFs())
			if err := a.Init(); err != nil {
				return err
			}
			defer a.Close()

			file, err := a.OpenFile(args[0])
			if err != nil {
				return err
			}

			n := common.PageID(pages)
			if total := file.NumPages(); total < n {
				n = total
			}

			for pageNo := common.PageID(0); pageNo < n; pageNo++ {
				if _, err := a.Pool.ReadPage(file, pageNo); err != nil {
					return err
				}
				if err := a.Pool.UnpinPage(file, pageNo, false); err != nil {
					return err
				}
			}

			a.Pool.PrintSelf(os.Stdout)

			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 8, "number of pages to load")

	return cmd
}
