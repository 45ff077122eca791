package tasklog

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestListRunsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"urls_100.txt", "urls_300.txt", "urls_200.txt", "urls_bad.txt", "urls.txt", "other_400.txt", "clip.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	runs, err := ListRuns(filepath.Join(dir, "urls.txt"))
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	var names []string
	for _, run := range runs {
		names = append(names, filepath.Base(run.Path))
	}
	want := []string{"urls_300.txt", "urls_200.txt", "urls_100.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("runs = %v, want %v", names, want)
	}
	if runs[0].ClaimedAt.Unix() != 300 || runs[0].Size != 2 {
		t.Fatalf("unexpected run metadata %+v", runs[0])
	}
}

func TestListRunsMissingDir(t *testing.T) {
	runs, err := ListRuns(filepath.Join(t.TempDir(), "nope", "urls.txt"))
	if err != nil || runs != nil {
		t.Fatalf("expected no runs and no error, got %v, %v", runs, err)
	}
}

func TestTailLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls_1.txt")
	var content strings.Builder
	for i := 0; i < 10; i++ {
		content.WriteString("line" + string(rune('0'+i)) + "\n")
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines, err := TailLines(path, 3)
	if err != nil {
		t.Fatalf("TailLines: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"line7", "line8", "line9"}) {
		t.Fatalf("unexpected tail %v", lines)
	}

	all, err := TailLines(path, 0)
	if err != nil || len(all) != 10 {
		t.Fatalf("expected all 10 lines, got %d (%v)", len(all), err)
	}

	short, err := TailLines(path, 50)
	if err != nil || len(short) != 10 || short[0] != "line0" {
		t.Fatalf("unexpected short tail %v (%v)", short, err)
	}
}
