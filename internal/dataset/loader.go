package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"vote-dashboard-go/internal/logger"
	"vote-dashboard-go/internal/types"
)

type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceLocal  SourceKind = "local"
)

// Source describes where a collection came from.
type Source struct {
	Kind        SourceKind `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Records     int        `json:"records"`
	Recovered   int        `json:"recovered"`
	LoadedAt    time.Time  `json:"loaded_at"`
}

// Dataset is one loaded vote collection together with the raw payload it
// was decoded from.
type Dataset struct {
	Records types.Collection
	Raw     []byte
	Source  Source
}

// Observer receives load outcomes. metrics.Metrics implements it.
type Observer interface {
	ObserveLoad(source SourceKind, err error, recovered int)
}

type Loader struct {
	path       string
	retryLimit time.Duration
	log        *logger.Logger
	observer   Observer
}

func NewLoader(path string, retryLimit time.Duration, log *logger.Logger, observer Observer) *Loader {
	if log == nil {
		log = logger.New()
	}
	return &Loader{
		path:       path,
		retryLimit: retryLimit,
		log:        log.Component("dataset.loader"),
		observer:   observer,
	}
}

func (l *Loader) Path() string { return l.path }

// Load returns the session's vote collection. An uploaded payload wins over
// the local file.
func (l *Loader) Load(ctx context.Context, override []byte, overrideName string) (*Dataset, error) {
	if override != nil {
		ds, err := l.fromUpload(override, overrideName)
		l.observe(SourceUpload, err, ds)
		return ds, err
	}
	ds, err := l.fromFile(ctx)
	l.observe(SourceLocal, err, ds)
	return ds, err
}

func (l *Loader) fromUpload(payload []byte, name string) (*Dataset, error) {
	src := Source{Kind: SourceUpload, Name: name, Description: "manually uploaded file"}
	log := l.log.WithField("source", src.Kind).WithField("name", name)
	records, recovered, err := Parse(payload)
	if err != nil {
		log.WithField("error", err.Error()).Warn("uploaded payload rejected")
		return nil, &ParseError{Source: src.Description, Err: err}
	}
	return l.finish(src, records, recovered, payload)
}

func (l *Loader) fromFile(ctx context.Context) (*Dataset, error) {
	name := filepath.Base(l.path)
	src := Source{Kind: SourceLocal, Name: name, Description: fmt.Sprintf("local file '%s'", name)}
	log := l.log.WithField("source", src.Kind).WithField("path", l.path)

	var (
		payload   []byte
		records   types.Collection
		recovered int
	)
	op := func() error {
		var err error
		payload, err = os.ReadFile(l.path)
		if errors.Is(err, fs.ErrNotExist) {
			return backoff.Permanent(ErrDataUnavailable)
		}
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read %s: %w", l.path, err))
		}
		records, recovered, err = Parse(payload)
		if err == nil {
			return nil
		}
		err = &ParseError{Source: src.Description, Err: err}
		if truncated(err) {
			// the voting program may be halfway through rewriting the file
			log.WithField("error", err.Error()).Debug("truncated vote file, retrying")
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = l.retryLimit
	var policy backoff.BackOff = bo
	if l.retryLimit <= 0 {
		policy = &backoff.StopBackOff{}
	}
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			log.Info("local vote file not found")
		} else {
			log.WithField("error", err.Error()).Error("local vote file unusable")
		}
		return nil, err
	}
	return l.finish(src, records, recovered, payload)
}

func (l *Loader) finish(src Source, records types.Collection, recovered int, payload []byte) (*Dataset, error) {
	if len(records) == 0 {
		l.log.WithField("source", src.Kind).Info("vote payload is empty")
		return nil, ErrDataUnavailable
	}
	src.Records = len(records)
	src.Recovered = recovered
	src.LoadedAt = time.Now()
	entry := l.log.WithField("source", src.Kind).WithField("records", src.Records)
	if recovered > 0 {
		entry.WithField("recovered", recovered).Warn("some vote records had an unexpected shape and were read as empty")
	}
	entry.Info("votes loaded")
	return &Dataset{Records: records, Raw: payload, Source: src}, nil
}

func (l *Loader) observe(kind SourceKind, err error, ds *Dataset) {
	if l.observer == nil {
		return
	}
	recovered := 0
	if ds != nil {
		recovered = ds.Source.Recovered
	}
	l.observer.ObserveLoad(kind, err, recovered)
}

func truncated(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
