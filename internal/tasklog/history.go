package tasklog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Run is a claimed batch file. After claiming, the file also holds the run
// log appended below the original lines.
type Run struct {
	Path      string
	ClaimedAt time.Time
	Size      int64
}

// ListRuns finds claimed copies of batchFile (name_<unix>.ext) next to it,
// newest first.
func ListRuns(batchFile string) ([]Run, error) {
	dir := filepath.Dir(batchFile)
	ext := filepath.Ext(batchFile)
	if ext == "" {
		ext = ".txt"
	}
	prefix := strings.TrimSuffix(filepath.Base(batchFile), filepath.Ext(batchFile)) + "_"

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var runs []Run
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		seconds, err := strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, Run{
			Path:      filepath.Join(dir, name),
			ClaimedAt: time.Unix(seconds, 0),
			Size:      info.Size(),
		})
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ClaimedAt.After(runs[j].ClaimedAt)
	})
	return runs, nil
}

// TailLines returns the last limit lines of path. A limit of zero or less
// returns every line.
func TailLines(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if limit <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, limit)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := range lines {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
