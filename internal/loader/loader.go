// Package loader turns binary glTF files into scene graph models, either
// synchronously or on a background goroutine.
package loader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/assets"
	"github.com/Faultbox/meadow/internal/logger"
)

// Loader reads models through an asset manager.
type Loader struct {
	assets *assets.Manager
}

// New creates a loader. A nil manager reads straight from disk.
func New(am *assets.Manager) *Loader {
	if am == nil {
		am = assets.NewManager()
	}
	return &Loader{assets: am}
}

// Load reads and converts the model at path.
func (l *Loader) Load(path string) (*Model, error) {
	start := time.Now()

	data, err := l.assets.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	fetch := func(uri string) ([]byte, error) {
		return l.assets.Load(filepath.Join(dir, filepath.FromSlash(uri)))
	}
	model, err := ConvertWith(doc, modelName(path), fetch)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(model.Nodes)),
		zap.Int("clips", len(model.Clips)),
		zap.Duration("took", time.Since(start)))
	return model, nil
}

// LoadAsync starts loading on a new goroutine and returns immediately.
func (l *Loader) LoadAsync(path string) *Future {
	f := newFuture()
	go func() {
		m, err := l.Load(path)
		f.resolve(m, err)
	}()
	return f
}

// Reload drops any cached bytes for path and loads it again in the
// background.
func (l *Loader) Reload(path string) *Future {
	l.assets.Invalidate(path)
	return l.LoadAsync(path)
}

func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Model *Model
	Err   error
}

// Future is a one-shot handle on a background load.
type Future struct {
	ch     chan Result
	result Result
	done   bool
}

func newFuture() *Future {
	return &Future{ch: make(chan Result, 1)}
}

func (f *Future) resolve(m *Model, err error) {
	f.ch <- Result{Model: m, Err: err}
}

// Poll returns the result without blocking. ok is false while the load is
// still running; once it is true later calls return the same result.
func (f *Future) Poll() (res Result, ok bool) {
	if f.done {
		return f.result, true
	}
	select {
	case f.result = <-f.ch:
		f.done = true
		return f.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the load finishes.
func (f *Future) Wait() Result {
	if !f.done {
		f.result = <-f.ch
		f.done = true
	}
	return f.result
}
