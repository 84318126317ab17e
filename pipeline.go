package imgflip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Extension is the file extension of IMG files picked up by ConvertDir.
const Extension = ".img"

const defaultWorkers = 10

func (c *Converter) findFiles(ctx context.Context, base, skip string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, this includes
			// our own temporary files
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if info.Mode().IsDir() {
				// Don't pick up our own output
				if file == skip && file != base {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), Extension) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Converter) conversionWorker(ctx context.Context, in <-chan string, src, dst string, flip Flip) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			select {
			case <-ctx.Done():
				return
			default:
			}

			rel, err := filepath.Rel(src, file)
			if err != nil {
				errc <- err
				return
			}

			out := filepath.Join(dst, rel)
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				errc <- err
				return
			}

			if err := c.Convert(file, out, flip); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline collects errors from every stage until they have all
// finished. The first error cancels the remaining stages and is returned once
// they have stopped, so nothing is still writing when it returns.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error)
	for _, c := range cs {
		wg.Add(1)
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				out <- err
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ConvertDir converts every IMG file found below src into the same relative
// location below dst using the given number of workers. The first failure
// stops the walk and is returned after every in-flight conversion has
// finished.
func (c *Converter) ConvertDir(src, dst string, flip Flip, workers int) error {
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	if workers <= 0 {
		workers = defaultWorkers
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findFiles(ctx, src, dst)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := c.conversionWorker(ctx, files, src, dst, flip)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
