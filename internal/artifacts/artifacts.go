package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Suffixes of the artifact files kept per fingerprint. Subtitles and
// transcript form a matched pair and are only ever trusted together.
const (
	suffixInput      = "_input.mp4"
	suffixSubtitles  = "_subs.srt"
	suffixTranscript = "_transcript.txt"
	suffixRender     = "_final.mp4"
	suffixAudio      = "_audio.mp3"
)

// Fingerprint streams the file at path through SHA-256 and returns the hex
// digest. The same bytes always map to the same cache entry regardless of
// file name or location.
func Fingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("artifacts: open source: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("artifacts: hash source: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Store lays out derived artifacts in a flat directory keyed by content
// fingerprint.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("artifacts: cache directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: ensure cache dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the cache directory.
func (s *Store) Root() string {
	return s.root
}

// InputPath returns the cached copy of the source video.
func (s *Store) InputPath(fingerprint string) string {
	return filepath.Join(s.root, fingerprint+suffixInput)
}

// SubtitlePath returns the SRT file for the fingerprint.
func (s *Store) SubtitlePath(fingerprint string) string {
	return filepath.Join(s.root, fingerprint+suffixSubtitles)
}

// TranscriptPath returns the plain-text transcript for the fingerprint.
func (s *Store) TranscriptPath(fingerprint string) string {
	return filepath.Join(s.root, fingerprint+suffixTranscript)
}

// RenderPath returns the burned-in output video for the fingerprint.
func (s *Store) RenderPath(fingerprint string) string {
	return filepath.Join(s.root, fingerprint+suffixRender)
}

// AudioPath returns the extracted MP3 for the fingerprint.
func (s *Store) AudioPath(fingerprint string) string {
	return filepath.Join(s.root, fingerprint+suffixAudio)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// HasInput reports whether the source copy is cached.
func (s *Store) HasInput(fingerprint string) bool {
	return exists(s.InputPath(fingerprint))
}

// HasCaptionPair reports whether both the subtitles and the transcript exist.
// One without the other counts as a miss so the pair can never drift apart.
func (s *Store) HasCaptionPair(fingerprint string) bool {
	return exists(s.SubtitlePath(fingerprint)) && exists(s.TranscriptPath(fingerprint))
}

// HasRender reports whether a burned-in output is cached.
func (s *Store) HasRender(fingerprint string) bool {
	return exists(s.RenderPath(fingerprint))
}

// HasAudio reports whether the extracted audio is cached.
func (s *Store) HasAudio(fingerprint string) bool {
	return exists(s.AudioPath(fingerprint))
}

// writeAtomic writes data through a temporary sibling and renames it into
// place.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("artifacts: write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("artifacts: promote %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteCaptionPair stores the subtitles and transcript together. The SRT is
// written first and the transcript second; a failure removes the partial SRT
// so a lone subtitle file cannot satisfy a later cache check.
func (s *Store) WriteCaptionPair(fingerprint, srt, transcript string) error {
	srtPath := s.SubtitlePath(fingerprint)
	if err := writeAtomic(srtPath, []byte(srt)); err != nil {
		return err
	}
	if err := writeAtomic(s.TranscriptPath(fingerprint), []byte(transcript)); err != nil {
		os.Remove(srtPath)
		return err
	}
	return nil
}

// ReadCaptionPair loads the cached subtitles and transcript.
func (s *Store) ReadCaptionPair(fingerprint string) (srt, transcript string, err error) {
	srtData, err := os.ReadFile(s.SubtitlePath(fingerprint))
	if err != nil {
		return "", "", fmt.Errorf("artifacts: read subtitles: %w", err)
	}
	txtData, err := os.ReadFile(s.TranscriptPath(fingerprint))
	if err != nil {
		return "", "", fmt.Errorf("artifacts: read transcript: %w", err)
	}
	return string(srtData), string(txtData), nil
}

// ImportInput copies the source video into the cache under its fingerprint
// and returns the cached path. An existing copy is reused.
func (s *Store) ImportInput(source, fingerprint string) (string, error) {
	dest := s.InputPath(fingerprint)
	if exists(dest) {
		return dest, nil
	}
	in, err := os.Open(source)
	if err != nil {
		return "", fmt.Errorf("artifacts: open source: %w", err)
	}
	defer in.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("artifacts: create input copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("artifacts: copy input: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("artifacts: flush input copy: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("artifacts: promote input copy: %w", err)
	}
	return dest, nil
}

// Entry summarizes one cached artifact file for CLI listings.
type Entry struct {
	Fingerprint string
	Kind        string
	SizeBytes   int64
	ModifiedAt  time.Time
}

var kindBySuffix = map[string]string{
	suffixInput:      "input",
	suffixSubtitles:  "subtitles",
	suffixTranscript: "transcript",
	suffixRender:     "render",
	suffixAudio:      "audio",
}

// List returns every artifact in the cache sorted by fingerprint then kind.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("artifacts: read cache dir: %w", err)
	}
	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		for suffix, kind := range kindBySuffix {
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			info, err := de.Info()
			if err != nil {
				continue
			}
			entries = append(entries, Entry{
				Fingerprint: strings.TrimSuffix(name, suffix),
				Kind:        kind,
				SizeBytes:   info.Size(),
				ModifiedAt:  info.ModTime(),
			})
			break
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Fingerprint != entries[j].Fingerprint {
			return entries[i].Fingerprint < entries[j].Fingerprint
		}
		return entries[i].Kind < entries[j].Kind
	})
	return entries, nil
}

// Clear removes every cached artifact and returns how many files were
// deleted.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("artifacts: read cache dir: %w", err)
	}
	removed := 0
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, de.Name())); err != nil {
			return removed, fmt.Errorf("artifacts: remove %s: %w", de.Name(), err)
		}
		removed++
	}
	return removed, nil
}
