package relocate

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"pgregory.net/rapid"
)

var timestampRe = regexp.MustCompile(`^[0-9]{14}$`)

// TestPropertyFilenameShape verifies that every synthesized name is the file
// type, an underscore, a 14 digit timestamp and the lower-cased extension.
func TestPropertyFilenameShape(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fileType := rapid.SampledFrom([]string{"Löser", "Aufgabenblatt", "Belegsatz", ""}).Draw(rt, "file_type")
		stem := rapid.StringMatching(`[A-Za-z0-9 _-]{1,20}`).Draw(rt, "stem")
		ext := rapid.SampledFrom([]string{"", ".pdf", ".PDF", ".Docx", ".tar.GZ"}).Draw(rt, "ext")
		ts := time.Unix(rapid.Int64Range(0, 4102444800).Draw(rt, "unix"), 0).UTC()

		name := Filename(fileType, "/in/"+stem+ext, ts)

		prefix := fileType + "_"
		if !strings.HasPrefix(name, prefix) {
			rt.Fatalf("Filename = %q, want prefix %q", name, prefix)
		}
		rest := strings.TrimPrefix(name, prefix)
		if len(rest) < 14 || !timestampRe.MatchString(rest[:14]) {
			rt.Fatalf("Filename = %q, want a 14 digit timestamp after the prefix", name)
		}
		if rest[:14] != ts.Format("20060102150405") {
			rt.Fatalf("timestamp = %q, want %q", rest[:14], ts.Format("20060102150405"))
		}

		wantExt := strings.ToLower(filepath.Ext(ext))
		if rest[14:] != wantExt {
			rt.Fatalf("extension = %q, want %q", rest[14:], wantExt)
		}
	})
}

// TestPropertyDirectoryOrder verifies that the destination directory is always
// base/year/specialization/exam_part regardless of the period.
func TestPropertyDirectoryOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		req := Request{
			Specialization: rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(rt, "specialization"),
			ExamPart:       rapid.SampledFrom([]string{"AP1", "AP2"}).Draw(rt, "exam_part"),
			Year:           rapid.StringMatching(`20[0-9]{2}`).Draw(rt, "year"),
			Period:         rapid.SampledFrom([]string{"Sommer", "Winter"}).Draw(rt, "period"),
		}

		got := Directory("/base", req)
		want := filepath.Join("/base", req.Year, req.Specialization, req.ExamPart)
		if got != want {
			rt.Fatalf("Directory = %q, want %q", got, want)
		}
	})
}

// TestPropertyRelocationPreservesContent verifies that a successful relocation
// removes the source and leaves exactly one file with identical bytes.
func TestPropertyRelocationPreservesContent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fs := afero.NewMemMapFs()
		r := New(WithFs(fs), WithClock(clockwork.NewFakeClockAt(frozen)))

		content := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(rt, "content")
		stem := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "stem")
		source := "/in/" + stem + ".pdf"
		if err := afero.WriteFile(fs, source, content, 0o644); err != nil {
			rt.Fatalf("WriteFile failed: %v", err)
		}

		req := scenarioRequest(source)
		req.Specialization = rapid.SampledFrom([]string{"Anwendungsentwicklung", "Systemintegration", "WISO"}).Draw(rt, "specialization")

		dst, err := r.Relocate(context.Background(), req, nil)
		if err != nil {
			rt.Fatalf("Relocate failed: %v", err)
		}

		if ok, _ := afero.Exists(fs, source); ok {
			rt.Fatalf("source %q still exists", source)
		}

		got, err := afero.ReadFile(fs, dst)
		if err != nil {
			rt.Fatalf("ReadFile(%q) failed: %v", dst, err)
		}
		if string(got) != string(content) {
			rt.Fatalf("content mismatch after relocation")
		}

		entries, err := afero.ReadDir(fs, filepath.Dir(dst))
		if err != nil {
			rt.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 {
			rt.Fatalf("destination directory has %d entries, want 1", len(entries))
		}
	})
}
