package jobs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/spigell/jobpilot/internal/jsonfile"
)

const (
	dayLayout       = "20060102"
	stampLayout     = "20060102_150405"
	dateAddedLayout = "2006-01-02 15:04:05"
	slugMaxLen      = 80
)

// Store persists records as JSON files grouped by day:
// <dir>/<YYYYMMDD>/<YYYYMMDD_HHMMSS>_<title>_<company>.json
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Save stamps date_added, defaults date_applied and writes r. It returns the
// written path.
func (s *Store) Save(r *Record) (string, error) {
	if r == nil {
		return "", errors.New("job record is nil")
	}

	now := s.now()
	r.DateAdded = now.Format(dateAddedLayout)

	company := r.Company
	if blank(company) {
		company = "unknown"
	}
	name := fmt.Sprintf("%s_%s_%s.json", now.Format(stampLayout), Slug(r.JobTitle), Slug(company))
	path := filepath.Join(s.dir, now.Format(dayLayout), name)

	if err := jsonfile.Write(path, r); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a record previously written by Save.
func (s *Store) Load(path string) (*Record, error) {
	r := &Record{}
	if err := jsonfile.Read(path, r); err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	return r, nil
}

// Overwrite rewrites an existing job file in place.
func (s *Store) Overwrite(path string, r *Record) error {
	return jsonfile.Write(path, r)
}

// List returns every stored job file, newest first.
func (s *Store) List() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs in %q: %w", s.dir, err)
	}

	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) > filepath.Base(paths[j])
	})
	return paths, nil
}

var (
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9\s\-_,.]`)
	separatorRuns  = regexp.MustCompile(`[\s\-_]+`)
)

// Slug turns text into an ASCII file-name fragment of at most 80 characters.
func Slug(text string) string {
	decomposed := norm.NFKD.String(text)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)

	s := forbiddenChars.ReplaceAllString(ascii, " ")
	s = unsafeChars.ReplaceAllString(s, " ")
	s = separatorRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")
	if s == "" {
		return "untitled"
	}
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
	}
	return s
}
