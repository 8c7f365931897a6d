package romgfx

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

func batchOutput(output string, address int64) string {
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%06X%s", strings.TrimSuffix(output, ext), address, ext)
}

func (e *Extractor) feedAddresses(ctx context.Context, addresses []int64) (<-chan int64, <-chan error, error) {
	out := make(chan int64)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, address := range addresses {
			select {
			case out <- address:
			case <-ctx.Done():
				errc <- errors.New("batch cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (e *Extractor) extractWorker(ctx context.Context, file, sum string, opts Options, in <-chan int64) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)

		// Each worker needs its own read position
		src, err := OpenSource(file)
		if err != nil {
			errc <- err
			return
		}
		defer src.Close()

		for address := range in {
			if ctx.Err() != nil {
				return
			}

			o := opts
			o.Address = address
			o.Output = batchOutput(opts.Output, address)

			if _, err := e.extract(src, sum, o); err != nil {
				errc <- fmt.Errorf("%#x: %w", address, err)
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error, cancelling the remaining stages
// and waiting for them to finish
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	errc := collectErrors(errs...)
	for err := range errc {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

// collectErrors funnels the feeder and worker error channels into one,
// which is closed once every stage of the batch has exited
func collectErrors(stages ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(stages))
	for _, stage := range stages {
		wg.Add(1)
		go func(errc <-chan error) {
			defer wg.Done()
			for err := range errc {
				out <- err
			}
		}(stage)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ExtractAll extracts the compressed stream at each of the addresses in
// file concurrently. Each output is named after opts.Output with the
// address appended before the extension. The first error stops the batch.
func (e *Extractor) ExtractAll(file string, opts Options, addresses []int64) error {
	var sum string
	if e.db != nil {
		src, err := OpenSource(file)
		if err != nil {
			return err
		}
		sum, err = src.Checksum()
		src.Close()
		if err != nil {
			return err
		}
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	in, errc, err := e.feedAddresses(ctx, addresses)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	workers := runtime.NumCPU()
	if workers > len(addresses) {
		workers = len(addresses)
	}

	for i := 0; i < workers; i++ {
		errc, err := e.extractWorker(ctx, file, sum, opts, in)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
