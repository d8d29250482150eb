package registry

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docbridge/docbridge/docerrors"
)

// DetectionPrefixSize bounds how much of an input detection reads. Magic
// bytes and content detectors only ever see this leading prefix, so
// detection cost is independent of total input size.
const DetectionPrefixSize = 8 * 1024

// Probe carries the detection signals available for one input. Zero-value
// fields are simply absent signals; at least one signal must be present
// for detection to succeed.
type Probe struct {
	// Format is an explicit caller-supplied format name. When set it
	// bypasses detection entirely and fails if unregistered.
	Format string
	// Filename supplies the extension signal.
	Filename string
	// MIMEType supplies the MIME signal (parameters are ignored).
	MIMEType string
	// Prefix is a bounded leading slice of the content, at most
	// DetectionPrefixSize bytes; longer slices are truncated.
	Prefix []byte
	// Input names the input in error messages. Defaults to Filename.
	Input string
}

// ReadPrefix reads at most DetectionPrefixSize bytes from r.
func ReadPrefix(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, DetectionPrefixSize))
}

// Detect resolves exactly one converter for the probed input.
//
// Signals are combined in order: an explicit format name bypasses
// detection; otherwise the extension, MIME, and magic-byte signals each
// contribute a candidate set and the survivors are their intersection.
// Content detectors disambiguate survivors sharing identical signals.
// Among several survivors the highest priority wins, with registration
// order as the deterministic final tie-break. No survivor is a
// FormatDetectionError naming the input.
func (r *Registry) Detect(p Probe) (*ConverterMetadata, error) {
	if p.Format != "" {
		return r.Get(p.Format)
	}
	if len(p.Prefix) > DetectionPrefixSize {
		p.Prefix = p.Prefix[:DetectionPrefixSize]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var signals []map[string]bool

	if ext := strings.ToLower(filepath.Ext(p.Filename)); ext != "" {
		set := make(map[string]bool)
		for name, e := range r.entries {
			for _, candidate := range e.meta.Extensions {
				if strings.ToLower(candidate) == ext {
					set[name] = true
					break
				}
			}
		}
		// An extension no format claims contributes nothing rather than
		// vetoing the content signals.
		if len(set) > 0 {
			signals = append(signals, set)
		}
	}

	if mime := normalizeMIME(p.MIMEType); mime != "" {
		set := make(map[string]bool)
		for name, e := range r.entries {
			for _, candidate := range e.meta.MIMETypes {
				if strings.ToLower(candidate) == mime {
					set[name] = true
					break
				}
			}
		}
		if len(set) > 0 {
			signals = append(signals, set)
		}
	}

	if len(p.Prefix) > 0 {
		set := make(map[string]bool)
		for name, e := range r.entries {
			for _, pattern := range e.meta.MagicPatterns {
				if pattern.Matches(p.Prefix) {
					set[name] = true
					break
				}
			}
		}
		// Content without any magic match is still a legitimate input for
		// text formats, so an empty magic set does not veto the others.
		if len(set) > 0 {
			signals = append(signals, set)
		}
	}

	survivors := intersect(signals)
	if len(survivors) == 0 {
		return nil, &docerrors.FormatDetectionError{
			Input:   r.inputName(p),
			Message: "no registered format matches the input",
		}
	}

	// Narrow an ambiguous set with content detectors. A candidate whose
	// detector rejects the prefix is dropped; candidates without a
	// detector are kept.
	if len(survivors) > 1 {
		kept := survivors[:0]
		for _, name := range survivors {
			meta := r.entries[name].meta
			if meta.Detector != nil && !meta.Detector.Match(p.Prefix) {
				continue
			}
			kept = append(kept, name)
		}
		survivors = kept
	}

	if len(survivors) == 0 {
		return nil, &docerrors.FormatDetectionError{
			Input:   r.inputName(p),
			Message: "every candidate's content detector rejected the input",
		}
	}

	// Highest priority wins; registration order is the deterministic
	// fallback for equal priorities.
	sort.Slice(survivors, func(i, j int) bool {
		a, b := r.entries[survivors[i]], r.entries[survivors[j]]
		if a.meta.Priority != b.meta.Priority {
			return a.meta.Priority > b.meta.Priority
		}
		return a.seq < b.seq
	})

	winner := r.entries[survivors[0]].meta
	r.logger.Debug("detected format",
		"input", r.inputName(p), "format", winner.FormatName, "candidates", len(survivors))
	return winner, nil
}

// DetectFile reads a bounded prefix of the file at path and detects its
// format from the filename and content signals.
func (r *Registry) DetectFile(path string) (*ConverterMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	prefix, err := ReadPrefix(f)
	if err != nil {
		return nil, err
	}
	return r.Detect(Probe{Filename: path, Prefix: prefix, Input: path})
}

// DetectBytes detects the format of an in-memory buffer, optionally with a
// filename hint.
func (r *Registry) DetectBytes(data []byte, filename string) (*ConverterMetadata, error) {
	prefix := data
	if len(prefix) > DetectionPrefixSize {
		prefix = prefix[:DetectionPrefixSize]
	}
	return r.Detect(Probe{Filename: filename, Prefix: prefix})
}

func (r *Registry) inputName(p Probe) string {
	switch {
	case p.Input != "":
		return p.Input
	case p.Filename != "":
		return p.Filename
	case p.MIMEType != "":
		return p.MIMEType
	default:
		return "<bytes>"
	}
}

// normalizeMIME lowercases a MIME type and strips parameters such as
// charset.
func normalizeMIME(mime string) string {
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = mime[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

// intersect combines candidate sets: a name survives when every
// contributing signal agrees on it. With no contributing signals there are
// no survivors.
func intersect(signals []map[string]bool) []string {
	if len(signals) == 0 {
		return nil
	}
	var out []string
	for name := range signals[0] {
		inAll := true
		for _, set := range signals[1:] {
			if !set[name] {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, name)
		}
	}
	return out
}
