// Package buildlog records one JSON line per generator run in a daily file
// and gzips files older than the retention window.
package buildlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// EAT is the timezone the daily files roll over in.
var EAT = time.FixedZone("EAT", 3*60*60)

type Entry struct {
	Time        string   `json:"time"`
	Source      string   `json:"source"`
	Resource    string   `json:"resource"`
	Tab         string   `json:"tab"`
	Status      string   `json:"status"`
	ExitCode    int      `json:"exit_code"`
	TotalRows   int      `json:"total_rows"`
	ActiveDeals int      `json:"active_deals"`
	OutputPath  string   `json:"output_path,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// now is replaced in tests.
var now = time.Now

func dailyFilepath(dir string, t time.Time) string {
	return filepath.Join(dir, t.In(EAT).Format("2006-01-02")+".txt")
}

// Append stamps e with the current time and appends it to today's file in dir.
func Append(dir string, e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	t := now().In(EAT)
	e.Time = t.Format("2006-01-02 15:04:05")
	p := dailyFilepath(dir, t)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips .txt files in dir last modified more than
// retentionDays ago and removes the originals. A non-positive retention
// disables compression. Files that cannot be compressed are left alone.
func CompressOlder(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	cutoff := now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err == nil {
			_ = os.Remove(p)
		}
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
