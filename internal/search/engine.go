package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"MnemonicFinder/internal/logsink"
	"MnemonicFinder/internal/queue"
	"MnemonicFinder/internal/targets"
	"MnemonicFinder/pkg/logx"
)

// Result summarizes a finished run.
type Result struct {
	Found    bool
	Evidence *Evidence
	Produced uint64 // candidates enqueued
	Checked  uint64 // candidates pulled and processed
	Derived  uint64 // addresses derived and compared
	Elapsed  time.Duration
}

// Run executes the search until a match is found, the candidate space
// is exhausted, or ctx is cancelled. All three are normal completions
// with a nil error. A non-nil error means the run aborted: setup
// failed, or a derivation call failed mid-run.
//
// Shutdown is orderly in every case: enumeration stops first, workers
// drain whatever the queue still buffers (an enqueued candidate might
// itself be the match), and the results sink is flushed before Run
// returns.
func Run(ctx context.Context, opt Options) (*Result, error) {
	cfg := opt.Config
	if cfg.Run.Workers < 1 {
		return nil, fmt.Errorf("run.workers must be > 0, got %d", cfg.Run.Workers)
	}

	tset := targets.New(cfg.Targets)

	trace := opt.Trace
	var sink *logsink.Sink
	if trace == nil {
		var err error
		sink, err = logsink.New(logsink.Config{
			Folder:     cfg.Output.Folder,
			FileName:   cfg.Output.File,
			MaxSizeMB:  cfg.Output.MaxSizeMB,
			MaxBackups: cfg.Output.MaxBackups,
			QueueSize:  cfg.Run.LogQueueSize,
		})
		if err != nil {
			return nil, err
		}
		trace = sink
	}

	var produced, checked, derived uint64

	chk, err := newChecker(opt, tset, trace, &derived)
	if err != nil {
		if sink != nil {
			sink.Close()
		}
		return nil, err
	}

	enum := enumeratorFor(cfg)
	q := queue.NewBounded[string](cfg.Run.QueueSize)

	poll := cfg.Run.PollInterval.Std()
	if poll <= 0 {
		poll = time.Second
	}
	progressEvery := cfg.Run.ProgressInterval.Std()
	if progressEvery <= 0 {
		progressEvery = 10 * time.Second
	}

	app := logx.S()
	app.Infow("search started",
		"workers", cfg.Run.Workers,
		"queue_size", q.Cap(),
		"candidates", enum.Total().String(),
		"addresses_total", cfg.TotalAddresses().String(),
		"targets", tset.Size(),
	)

	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var foundOnce sync.Once
	var found *Evidence
	report := func(ev *Evidence) {
		foundOnce.Do(func() {
			trace.Log(formatFound(ev))
			app.Infow("FOUND",
				"address", ev.Address,
				"scheme", ev.Scheme,
				"path", ev.Path,
				"mnemonic", ev.Mnemonic,
				"passphrase", ev.Passphrase,
				"elapsed", humanDuration(time.Since(start)),
			)
			found = ev
			cancel()
		})
	}

	g, gctx := errgroup.WithContext(runCtx)

	// producer: enumerate until done or stopped, then close the queue
	// so workers finish the drain and exit
	g.Go(func() error {
		defer q.Close()
		for {
			phrase, ok := enum.Next()
			if !ok {
				return nil
			}
			if !q.Push(gctx, phrase) {
				return nil
			}
			atomic.AddUint64(&produced, 1)
		}
	})

	for i := 0; i < cfg.Run.Workers; i++ {
		g.Go(func() error {
			for {
				phrase, outcome := q.Pop(poll)
				switch outcome {
				case queue.PopClosed:
					return nil
				case queue.PopEmpty:
					continue
				}
				ev, err := chk.Check(phrase)
				atomic.AddUint64(&checked, 1)
				if err != nil {
					return err
				}
				if ev != nil {
					report(ev)
				}
			}
		})
	}

	statusDone := make(chan struct{})
	go func() {
		defer close(statusDone)
		ticker := time.NewTicker(progressEvery)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case now := <-ticker.C:
				elapsed := now.Sub(start)
				rate := 0.0
				n := atomic.LoadUint64(&derived)
				if elapsed > 0 {
					rate = float64(n) / elapsed.Seconds()
				}
				app.Infow("progress",
					"produced", atomic.LoadUint64(&produced),
					"checked", atomic.LoadUint64(&checked),
					"derived", n,
					"rate_addr_per_sec", fmt.Sprintf("%.2f", rate),
					"elapsed", humanDuration(elapsed),
				)
			}
		}
	}()

	runErr := g.Wait()
	cancel()
	<-statusDone
	if sink != nil {
		sink.Close()
	}

	res := &Result{
		Found:    found != nil,
		Evidence: found,
		Produced: atomic.LoadUint64(&produced),
		Checked:  atomic.LoadUint64(&checked),
		Derived:  atomic.LoadUint64(&derived),
		Elapsed:  time.Since(start),
	}

	if runErr != nil {
		app.Errorw("search aborted",
			"produced", res.Produced,
			"checked", res.Checked,
			"err", runErr,
		)
		return nil, runErr
	}

	app.Infow("stopped",
		"found", res.Found,
		"produced", res.Produced,
		"checked", res.Checked,
		"derived", res.Derived,
		"elapsed", humanDuration(res.Elapsed),
	)
	return res, nil
}

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}
