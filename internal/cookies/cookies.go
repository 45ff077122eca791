// Package cookies rewrites exported browser cookie tables into the Netscape
// cookie-jar format yt-dlp reads.
package cookies

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"viddl/internal/services"
)

// Header is the first line of every normalized file.
const Header = "# Netscape HTTP Cookie File"

// minFields is the shortest record accepted: name through the column after
// expiry.
const minFields = 7

const secureMark = "✓"

var expiryLayouts = []string{
	time.RFC3339,
	"Mon, 02 Jan 2006 15:04:05 GMT",
}

// Record is one normalized cookie.
type Record struct {
	Domain  string
	Path    string
	Secure  bool
	Expires int64
	Name    string
	Value   string
}

// IncludeSubdomains reports the jar's subdomain flag.
func (r Record) IncludeSubdomains() bool {
	return strings.HasPrefix(r.Domain, ".")
}

// String renders the record as a Netscape jar line.
func (r Record) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s\t%s",
		r.Domain, flag(r.IncludeSubdomains()), r.Path, flag(r.Secure), r.Expires, r.Name, r.Value)
}

func flag(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// ParseRecord reads one tab-separated export row laid out as name, value,
// domain, path, expires, with the secure marker in the eighth column.
func ParseRecord(line string) (Record, bool) {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return Record{}, false
	}
	parts := strings.Split(line, "\t")
	if len(parts) < minFields {
		return Record{}, false
	}
	rec := Record{
		Name:    strings.TrimSpace(parts[0]),
		Value:   strings.TrimSpace(parts[1]),
		Domain:  strings.TrimSpace(parts[2]),
		Path:    strings.TrimSpace(parts[3]),
		Expires: parseExpiry(strings.TrimSpace(parts[4])),
	}
	if rec.Path == "" {
		rec.Path = "/"
	}
	if len(parts) > 7 && strings.TrimSpace(parts[7]) == secureMark {
		rec.Secure = true
	}
	return rec, true
}

func parseExpiry(raw string) int64 {
	for _, layout := range expiryLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Unix()
		}
	}
	return 0
}

// NormalizeFile rewrites path in place and returns the number of records
// written. Rows that do not parse are dropped.
func NormalizeFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, services.Wrap(services.ErrNotFound, "cookies", "open", "failed to open cookies file", err)
	}
	lines := []string{Header}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if rec, ok := ParseRecord(scanner.Text()); ok {
			lines = append(lines, rec.String())
		}
	}
	scanErr := scanner.Err()
	_ = file.Close()
	if scanErr != nil {
		return 0, services.Wrap(services.ErrValidation, "cookies", "read", "failed to read cookies file", scanErr)
	}

	info, err := os.Stat(path)
	mode := os.FileMode(0o600)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), mode); err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "cookies", "write", "failed to rewrite cookies file", err)
	}
	return len(lines) - 1, nil
}
