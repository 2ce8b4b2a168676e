// Package transcripts ingests chat transcript fragments from files appended
// to a watched directory. Each appended line becomes one raw record; the
// session worker later windows and attributes them.
package transcripts

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
	"github.com/xiaoyuanzhu-com/ai-session-hub/log"
)

// Worker tails transcript files in a directory using fsnotify
type Worker struct {
	dir     string
	watcher *fsnotify.Watcher

	stopChan chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	offsets map[string]int64 // bytes already ingested per file
}

// NewWorker creates a transcript ingestion worker for the given directory
func NewWorker(dir string) *Worker {
	return &Worker{
		dir:      dir,
		stopChan: make(chan struct{}),
		offsets:  make(map[string]int64),
	}
}

// Start begins watching the transcript directory
func (w *Worker) Start() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	var err error
	w.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		return err
	}

	// Ingest whatever is already there before watching for changes.
	w.scanExisting()

	w.wg.Add(1)
	go w.eventLoop()

	log.Info().Str("dir", w.dir).Msg("transcript watcher started")
	return nil
}

// Stop stops the transcript worker
func (w *Worker) Stop() {
	close(w.stopChan)
	if w.watcher != nil {
		w.watcher.Close()
	}
	w.wg.Wait()
	log.Info().Msg("transcript watcher stopped")
}

func (w *Worker) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isTranscriptFile(event.Name) {
				continue
			}
			w.ingestFile(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("transcript watcher error")
		case <-w.stopChan:
			return
		}
	}
}

func (w *Worker) scanExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", w.dir).Msg("failed to scan transcript directory")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isTranscriptFile(entry.Name()) {
			continue
		}
		w.ingestFile(filepath.Join(w.dir, entry.Name()))
	}
}

// ingestFile reads the file content appended since the last ingest and
// inserts one raw record per complete line.
func (w *Worker) ingestFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to open transcript file")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to stat transcript file")
		return
	}

	offset := w.offsets[path]
	if info.Size() < offset {
		// File was truncated or rotated, start over.
		offset = 0
	}
	if info.Size() == offset {
		return
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to seek transcript file")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read transcript file")
		return
	}

	lines, consumed := splitCompleteLines(data)
	w.offsets[path] = offset + consumed

	sessionFile := filepath.Base(path)
	folder := filepath.Base(filepath.Dir(path))
	inserted := 0
	for _, line := range lines {
		record := &db.RawRecord{
			SourceType:    "transcript",
			SessionFile:   sessionFile,
			ProjectFolder: &folder,
			Content:       line,
		}
		if err := db.InsertRawRecord(record); err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to insert transcript record")
			continue
		}
		inserted++
	}

	if inserted > 0 {
		log.Debug().Str("path", path).Int("lines", inserted).Msg("ingested transcript lines")
	}
}

// splitCompleteLines returns the complete (newline-terminated) lines in data
// and how many bytes they span. A trailing partial line is left for the next
// write event.
func splitCompleteLines(data []byte) ([]string, int64) {
	text := string(data)
	end := strings.LastIndexByte(text, '\n')
	if end < 0 {
		return nil, 0
	}

	var lines []string
	for _, line := range strings.Split(text[:end], "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, int64(end + 1)
}

func isTranscriptFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jsonl" || ext == ".log" || ext == ".txt"
}
