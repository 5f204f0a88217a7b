// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollclient

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/kumpul/auth"
	"github.com/danielhkuo/kumpul/models"
	"github.com/danielhkuo/kumpul/polls"
)

const (
	DefaultDebounce        = 3 * time.Second
	DefaultRefreshInterval = 5 * time.Second

	MsgConnectionFailed = "Koneksi ke server gagal"
	MsgSaveFailed       = "Gagal menyimpan pilihan"
	MsgCancelFailed     = "Gagal membatalkan pilihan"
)

var (
	ErrNotMounted     = errors.New("widget is not mounted")
	ErrAlreadyMounted = errors.New("widget is already mounted")
)

// State of a widget's selection.
type State int

const (
	Idle State = iota
	PendingSave
	Saved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingSave:
		return "pending"
	case Saved:
		return "saved"
	}
	return "unknown"
}

// VoteAPI is the subset of Client a Widget needs.
type VoteAPI interface {
	PollTally(ctx context.Context, pt models.PollType) (models.Tally, error)
	MyVote(ctx context.Context, pt models.PollType, userID string) (string, bool, error)
	Cast(ctx context.Context, pt models.PollType, userID, option string) (models.Tally, error)
	Cancel(ctx context.Context, pt models.PollType, userID string) (models.Tally, error)
}

// Options tunes a Widget. Zero values take the defaults.
type Options struct {
	Debounce        time.Duration
	RefreshInterval time.Duration
	// Flags receives the legacy voted-<pollType> marker. Optional.
	Flags    auth.KeyValue
	OnChange func(View)
}

// View is a rendering snapshot.
type View struct {
	PollType models.PollType
	Options  []string
	State    State
	Selected string
	Saved    string
	Tally    models.Tally
	Total    int
	Loading  bool
	Error    string
}

// Widget drives one poll: optimistic selection, a debounced save, click
// again to cancel, periodic tally refresh.
type Widget struct {
	api      VoteAPI
	identity auth.IdentityProvider
	pollType models.PollType
	options  []string
	opts     Options

	mu       sync.Mutex
	mounted  bool
	userID   string
	state    State
	selected string
	saved    string
	tally    models.Tally
	loading  bool
	errMsg   string
	timer    *time.Timer
	gen      uint64

	// busy is set while a cast or cancel request runs. cancelling marks
	// the running request as a cancel.
	busy       bool
	cancelling bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWidget(api VoteAPI, identity auth.IdentityProvider, pt models.PollType, options []string, opts Options) *Widget {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	return &Widget{
		api:      api,
		identity: identity,
		pollType: pt,
		options:  slices.Clone(options),
		opts:     opts,
		tally:    zeroTally(options),
		loading:  true,
	}
}

// Mount resolves the identity, loads the tally and the user's vote in
// parallel, then starts the refresh loop. It returns once the initial
// load has settled.
func (w *Widget) Mount(ctx context.Context) error {
	userID, err := w.identity.AnonymousID()
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.mounted {
		w.mu.Unlock()
		return ErrAlreadyMounted
	}
	w.mounted = true
	w.userID = userID
	w.ctx, w.cancel = context.WithCancel(ctx)
	wctx := w.ctx
	w.mu.Unlock()

	var initial sync.WaitGroup
	initial.Add(2)
	go func() {
		defer initial.Done()
		w.refresh(wctx)
	}()
	go func() {
		defer initial.Done()
		w.loadMyVote(wctx, userID)
	}()
	initial.Wait()

	w.wg.Add(1)
	go w.refreshLoop(wctx)
	return nil
}

// Unmount stops both timers and waits for in-flight requests.
func (w *Widget) Unmount() {
	w.mu.Lock()
	if !w.mounted {
		w.mu.Unlock()
		return
	}
	w.mounted = false
	w.gen++
	w.stopTimerLocked()
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
}

// Select applies a click on option.
func (w *Widget) Select(option string) error {
	w.mu.Lock()
	if !w.mounted {
		w.mu.Unlock()
		return ErrNotMounted
	}
	if !slices.Contains(w.options, option) {
		w.mu.Unlock()
		return polls.ErrUnknownOption
	}

	switch {
	case w.cancelling && w.state == Saved && option == w.saved:
		// Repeat click while the cancel is still running.
		w.mu.Unlock()
		return nil

	case w.state == Saved && option == w.saved:
		w.gen++
		w.busy, w.cancelling = true, true
		wr := write{cancel: true, gen: w.gen}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.run(wr)
		}()

	case w.state == PendingSave && option == w.saved && !w.busy:
		// No write has started for the pending option, so the server
		// still holds the saved one.
		w.stopTimerLocked()
		w.gen++
		w.selected = w.saved
		w.state = Saved

	default:
		w.stopTimerLocked()
		w.gen++
		gen := w.gen
		w.selected = option
		w.state = PendingSave
		w.errMsg = ""
		w.wg.Add(1)
		w.timer = time.AfterFunc(w.opts.Debounce, func() { w.fire(gen) })
	}

	v := w.viewLocked()
	w.mu.Unlock()
	w.emit(v)
	return nil
}

func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

func (w *Widget) viewLocked() View {
	tally := make(models.Tally, len(w.tally))
	for k, v := range w.tally {
		tally[k] = v
	}
	return View{
		PollType: w.pollType,
		Options:  slices.Clone(w.options),
		State:    w.state,
		Selected: w.selected,
		Saved:    w.saved,
		Tally:    tally,
		Total:    tally.Total(),
		Loading:  w.loading,
		Error:    w.errMsg,
	}
}

func (w *Widget) emit(v View) {
	if w.opts.OnChange != nil {
		w.opts.OnChange(v)
	}
}

// stopTimerLocked releases the wait group slot of a timer that never fired.
func (w *Widget) stopTimerLocked() {
	if w.timer == nil {
		return
	}
	if w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
}

func (w *Widget) refreshLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.opts.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Widget) refresh(ctx context.Context) {
	tally, err := w.api.PollTally(ctx, w.pollType)
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	w.loading = false
	if err != nil {
		slog.Warn("tally fetch failed", "poll", w.pollType, "error", err)
		w.tally = zeroTally(w.options)
		w.errMsg = MsgConnectionFailed
	} else {
		w.tally = w.fill(tally)
		if w.errMsg == MsgConnectionFailed {
			w.errMsg = ""
		}
	}
	v := w.viewLocked()
	w.mu.Unlock()
	w.emit(v)
}

func (w *Widget) loadMyVote(ctx context.Context, userID string) {
	option, voted, err := w.api.MyVote(ctx, w.pollType, userID)
	if err != nil {
		slog.Debug("my-vote fetch failed", "poll", w.pollType, "error", err)
		return
	}
	if !voted {
		return
	}

	if !slices.Contains(w.options, option) {
		// Stale catalog. The next cast replaces it on the server.
		slog.Warn("stored vote not in catalog", "poll", w.pollType, "option", option)
		return
	}

	w.mu.Lock()
	if !w.busy && w.saved == "" {
		w.saved = option
	}
	// A click during mount wins over the stored vote.
	if w.state == Idle {
		w.selected = option
		w.state = Saved
	}
	v := w.viewLocked()
	w.mu.Unlock()
	w.emit(v)
}

// write is one request toward the server.
type write struct {
	cancel bool
	option string
	gen    uint64
}

// fire is the debounce timer callback.
func (w *Widget) fire(gen uint64) {
	defer w.wg.Done()

	w.mu.Lock()
	if gen != w.gen || w.state != PendingSave {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	if w.busy {
		// The running request picks the selection up when it settles.
		w.mu.Unlock()
		return
	}
	if w.selected == w.saved {
		// An earlier write already stored this option.
		w.state = Saved
		v := w.viewLocked()
		w.mu.Unlock()
		w.emit(v)
		return
	}
	w.busy = true
	wr := write{option: w.selected, gen: gen}
	w.mu.Unlock()

	w.run(wr)
}

// run performs wr and any follow-up writes one at a time. The caller has
// set busy.
func (w *Widget) run(wr write) {
	for {
		w.mu.Lock()
		ctx, userID := w.ctx, w.userID
		w.mu.Unlock()

		var tally models.Tally
		var err error
		if wr.cancel {
			tally, err = w.api.Cancel(ctx, w.pollType, userID)
		} else {
			tally, err = w.api.Cast(ctx, w.pollType, userID, wr.option)
		}

		w.mu.Lock()
		w.applyLocked(wr, tally, err)
		next, more := w.settleLocked()
		v := w.viewLocked()
		w.mu.Unlock()
		w.emit(v)

		if !more {
			return
		}
		wr = next
	}
}

// applyLocked records the outcome of wr. A result for an older click
// updates the confirmed option and tally but leaves the selection alone.
func (w *Widget) applyLocked(wr write, tally models.Tally, err error) {
	current := wr.gen == w.gen

	if wr.cancel {
		w.cancelling = false
		if err != nil {
			slog.Warn("vote cancel failed", "poll", w.pollType, "error", err)
			if current {
				w.errMsg = MsgCancelFailed
			}
			return
		}
		w.saved = ""
		w.tally = w.fill(tally)
		w.setFlag(false)
		if current {
			w.selected = ""
			w.state = Idle
			w.errMsg = ""
		}
		return
	}

	if err != nil {
		slog.Warn("vote save failed", "poll", w.pollType, "option", wr.option, "error", err)
		if current {
			w.selected = w.saved
			if w.saved == "" {
				w.state = Idle
			} else {
				w.state = Saved
			}
			w.errMsg = MsgSaveFailed
		}
		return
	}
	w.saved = wr.option
	w.tally = w.fill(tally)
	w.setFlag(true)
	if current {
		w.selected = wr.option
		w.state = Saved
		w.errMsg = ""
	}
}

// settleLocked reconciles a pending selection once a request finishes.
// It returns the next write to run, if any, keeping busy set for it.
func (w *Widget) settleLocked() (write, bool) {
	if !w.mounted || w.state != PendingSave {
		w.busy = false
		return write{}, false
	}
	if w.selected == w.saved {
		w.stopTimerLocked()
		w.state = Saved
		w.busy = false
		return write{}, false
	}
	if w.timer != nil {
		// Still debouncing. fire starts the write.
		w.busy = false
		return write{}, false
	}
	return write{option: w.selected, gen: w.gen}, true
}

// fill zero-fills options the server left out.
func (w *Widget) fill(t models.Tally) models.Tally {
	out := zeroTally(w.options)
	for _, o := range w.options {
		out[o] = t[o]
	}
	return out
}

func (w *Widget) setFlag(voted bool) {
	if w.opts.Flags == nil {
		return
	}
	key := "voted-" + string(w.pollType)
	var err error
	if voted {
		err = w.opts.Flags.Set(key, "true")
	} else {
		err = w.opts.Flags.Delete(key)
	}
	if err != nil {
		slog.Warn("voted flag write failed", "key", key, "error", err)
	}
}

func zeroTally(options []string) models.Tally {
	t := make(models.Tally, len(options))
	for _, o := range options {
		t[o] = 0
	}
	return t
}
