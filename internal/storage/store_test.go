package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/skyfloat/internal/balloon"
)

var sample = []balloon.Snapshot{
	{Text: "Buy milk", Category: balloon.Work, Color: "#A7C7E7", Size: 42.5, TargetY: 260},
	{Text: "Call mom", Category: balloon.Personal, Color: "#FF9AA2", Size: 31, TargetY: 410.25},
	{Text: "Water plants", Category: balloon.None, Color: "#FFB7CE", Size: 49.9, TargetY: 150},
}

func TestFileKV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	kv := NewFileKV(dir, "data.json")
	if err := kv.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := kv.Get("balloons"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Put("balloons", []byte(`[1,2]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := kv.Put("other", []byte(`"x"`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := NewFileKV(dir, "data.json").Get("balloons")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "[1,2]" {
		t.Errorf("expected [1,2], got %s", got)
	}

	if err := kv.Put("bad", []byte("not json")); err == nil {
		t.Error("expected error for non-JSON value")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the data file, found %d entries", len(entries))
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	kv := NewFileKV(dir, "data.json")

	if _, err := kv.Get("balloons"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected parse error, got %v", err)
	}
	if err := kv.Put("balloons", []byte("[]")); err != nil {
		t.Fatalf("put over corrupt file failed: %v", err)
	}
	if got, err := kv.Get("balloons"); err != nil || string(got) != "[]" {
		t.Errorf("expected [], got %s (%v)", got, err)
	}
}

func TestRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	store := NewBalloons(kv, "balloons")

	if err := store.Save(sample); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	records, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(records) != len(sample) {
		t.Fatalf("expected %d records, got %d", len(sample), len(records))
	}
	for i, r := range records {
		s, err := r.Snapshot(i)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if s != sample[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, sample[i], s)
		}
	}
}

func TestEncodeOmitsTransientState(t *testing.T) {
	data, err := Encode(sample[:1])
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"text":"Buy milk","category":"work","color":"#A7C7E7","size":42.5,"targetY":260}]`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestLoadMissingKey(t *testing.T) {
	records, err := NewBalloons(NewMemoryKV(), "balloons").Load()
	if err != nil || records != nil {
		t.Errorf("expected empty load, got %v (%v)", records, err)
	}
}

func TestDecodeNotAList(t *testing.T) {
	if _, err := Decode([]byte(`{"text":"x"}`)); err == nil {
		t.Error("expected error for non-array payload")
	}
}

func TestMalformedRecords(t *testing.T) {
	data := `[
		{"text":"ok","category":"work","color":"#A7C7E7","size":40,"targetY":300},
		{"category":"work","color":"#A7C7E7","size":40,"targetY":300},
		{"text":"no size","color":"#A7C7E7","targetY":300},
		{"text":"bad cat","category":"chores","color":"#A7C7E7","size":40,"targetY":300},
		{"text":"bad type","color":"#A7C7E7","size":"big","targetY":300},
		{"text":"no category","color":"#FFB7CE","size":35,"targetY":200},
		7
	]`
	records, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	tests := []struct {
		field string
		err   error
	}{
		{"", nil},
		{"text", balloon.ErrMissingField},
		{"size", balloon.ErrMissingField},
		{"category", balloon.ErrUnknownCategory},
		{"record", errMalformed},
		{"category", balloon.ErrMissingField},
		{"record", errMalformed},
	}
	for i, tt := range tests {
		s, err := records[i].Snapshot(i)
		if tt.err == nil {
			if err != nil {
				t.Errorf("record %d: unexpected error %v", i, err)
			}
			continue
		}
		var rerr *balloon.RestoreError
		if !errors.As(err, &rerr) {
			t.Errorf("record %d: expected RestoreError, got %v", i, err)
			continue
		}
		if rerr.Index != i || rerr.Field != tt.field || !errors.Is(err, tt.err) {
			t.Errorf("record %d: got index %d field %q err %v", i, rerr.Index, rerr.Field, err)
		}
		if s != (balloon.Snapshot{}) {
			t.Errorf("record %d: expected zero snapshot on failure", i)
		}
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{
		{Step: 10, ID: 1, Text: "Buy milk", Category: "work", Color: "#A7C7E7", Size: 40, TargetY: 300, X: 120, Y: 310},
		{Step: 10, ID: 2, Text: "Call, mom", Category: "personal", Color: "#FF9AA2", Size: 35, TargetY: 200, Focused: true},
	}
	if err := ExportCSV(&buf, rows); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if err := AppendCSV(&buf, rows[:1]); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "step,id,text,category,color,size,target_y,x,y,angle") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], `"Call, mom"`) {
		t.Errorf("expected quoted text, got %q", lines[2])
	}
}
