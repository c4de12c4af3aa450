package ai

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

// UsageHeader is the column layout of the usage log.
var UsageHeader = []string{
	"timestamp", "task", "model", "prompt_tokens", "completion_tokens",
	"total_tokens", "cost_usd", "latency_s", "notes",
}

const usageTimeLayout = "2006-01-02 15:04:05"

// UsageRecord is one row of the usage log.
type UsageRecord struct {
	Time  time.Time
	Meta  CallMeta
	Notes string
}

// UsageLog appends call records to a CSV file.
type UsageLog struct {
	path string
	mu   sync.Mutex
}

func NewUsageLog(path string) *UsageLog {
	return &UsageLog{path: path}
}

func (l *UsageLog) Path() string {
	return l.path
}

// Append writes rec, creating the file with its header on first use.
func (l *UsageLog) Append(rec UsageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create usage log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open usage log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat usage log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(UsageHeader); err != nil {
			return fmt.Errorf("write usage header: %w", err)
		}
	}

	m := rec.Meta
	row := []string{
		rec.Time.Format(usageTimeLayout),
		m.Task,
		m.Model,
		strconv.Itoa(m.PromptTokens),
		strconv.Itoa(m.CompletionTokens),
		strconv.Itoa(m.TotalTokens),
		strconv.FormatFloat(m.CostUSD, 'f', -1, 64),
		strconv.FormatFloat(m.LatencyS, 'f', -1, 64),
		rec.Notes,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write usage row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// UsageTotals aggregates usage for one task/model pair.
type UsageTotals struct {
	Task        string
	Model       string
	Calls       int
	TotalTokens int
	CostUSD     float64
}

// Summarize reads the log and totals it per task and model, ordered by task
// then model. A missing log yields no totals.
func (l *UsageLog) Summarize() ([]UsageTotals, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open usage log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(UsageHeader)

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read usage header: %w", err)
	}

	byKey := map[[2]string]*UsageTotals{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read usage row: %w", err)
		}

		key := [2]string{row[1], row[2]}
		totals, ok := byKey[key]
		if !ok {
			totals = &UsageTotals{Task: row[1], Model: row[2]}
			byKey[key] = totals
		}
		tokens, _ := strconv.Atoi(row[5])
		cost, _ := strconv.ParseFloat(row[6], 64)
		totals.Calls++
		totals.TotalTokens += tokens
		totals.CostUSD = round(totals.CostUSD+cost, 6)
	}

	out := make([]UsageTotals, 0, len(byKey))
	for _, totals := range byKey {
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Task != out[j].Task {
			return out[i].Task < out[j].Task
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}
