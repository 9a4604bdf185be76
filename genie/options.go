package genie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// Defaults for Options.
const (
	DefaultQuantum  = 6
	DefaultDuration = 250 * time.Millisecond
	DefaultTimeout  = 2 * time.Second
	DefaultEasing   = "in-out-sine"

	minDuration = time.Millisecond
)

// Options configures one expand or collapse.
type Options struct {
	// Directions limits the travel axis. Empty allows all four.
	Directions []Direction `yaml:"directions"`
	// Quantum is the slice stride in pixels, at least MinQuantum.
	Quantum float64 `yaml:"quantum"`
	// Duration is the length of each of the two phases.
	Duration time.Duration `yaml:"duration"`
	// Stagger delays each slice's start by this much per slice, counted
	// away from the terminal slice.
	Stagger time.Duration `yaml:"stagger"`
	// Timeout is the deadline after which leftover overlay nodes are swept
	// and the completion fires if it has not already.
	Timeout time.Duration `yaml:"timeout"`
	// Easing names the tween curve. See Easings.
	Easing string `yaml:"easing"`

	// OnComplete runs once with the result.
	OnComplete func(Result) `yaml:"-"`
}

// DefaultOptions returns the options used for zero fields.
func DefaultOptions() Options {
	return Options{
		Quantum:  DefaultQuantum,
		Duration: DefaultDuration,
		Timeout:  DefaultTimeout,
		Easing:   DefaultEasing,
	}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"in-out-expo":  ease.InOutExpo,
	"out-back":     ease.OutBack,
	"out-bounce":   ease.OutBounce,
}

// Easings returns the set of accepted easing names.
func Easings() map[string]ease.TweenFunc {
	return easings
}

// Validate reports option values that cannot be used as given.
func (o Options) Validate() error {
	var errs []error
	for _, d := range o.Directions {
		if d > Right {
			errs = append(errs, fmt.Errorf("genie: invalid direction %d", d))
		}
	}
	if o.Quantum < 0 {
		errs = append(errs, fmt.Errorf("genie: negative quantum %v", o.Quantum))
	}
	if o.Duration < 0 || o.Stagger < 0 || o.Timeout < 0 {
		errs = append(errs, errors.New("genie: negative duration"))
	}
	if o.Easing != "" {
		if _, ok := easings[o.Easing]; !ok {
			errs = append(errs, fmt.Errorf("genie: unknown easing %q", o.Easing))
		}
	}
	return errors.Join(errs...)
}

// normalized fills zero fields from the defaults and clamps the rest.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Quantum == 0 {
		o.Quantum = d.Quantum
	}
	o.Quantum = clampQuantum(o.Quantum)
	if o.Duration <= 0 {
		o.Duration = d.Duration
	}
	o.Duration = max(o.Duration, minDuration)
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	o.Stagger = max(o.Stagger, 0)
	if _, ok := easings[o.Easing]; !ok {
		o.Easing = d.Easing
	}
	return o
}

func (o Options) easeFunc() ease.TweenFunc {
	return easings[o.normalized().Easing]
}

// LoadOptions parses YAML options on top of DefaultOptions.
func LoadOptions(data []byte) (Options, error) {
	o := DefaultOptions()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("genie: parse options: %w", err)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// ReadOptionsFile reads and parses a YAML options file.
func ReadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("genie: read options: %w", err)
	}
	return LoadOptions(data)
}

// WatchOptionsFile calls fn with freshly parsed options every time the file
// at path is written or replaced, until ctx is done. fn runs on the watcher
// goroutine. Parse errors are passed to fn and watching continues.
func WatchOptionsFile(ctx context.Context, path string, fn func(Options, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("genie: watch options: %w", err)
	}
	path = filepath.Clean(path)
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("genie: watch options: %w", err)
	}

	go func() {
		defer w.Close()
		log := logger().With().Str("file", path).Logger()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				log.Debug().Str("op", ev.Op.String()).Msg("options file changed")
				fn(ReadOptionsFile(path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("options watcher error")
			}
		}
	}()
	return nil
}
