package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write corpus: %v", err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		column  string
		want    []string
	}{
		{
			name:    "single column",
			content: "review\nlatte was great\nespresso was strong\n",
			column:  "review",
			want:    []string{"latte was great", "espresso was strong"},
		},
		{
			name:    "column by name among several",
			content: "id,review,stars\n1,machine works well,5\n2,broke after a week,1\n",
			column:  "review",
			want:    []string{"machine works well", "broke after a week"},
		},
		{
			name:    "column by numeric index",
			content: "a,b\nx,first text\ny,second text\n",
			column:  "1",
			want:    []string{"first text", "second text"},
		},
		{
			name:    "empty selector uses first column",
			content: "text\nonly entry\n",
			column:  "",
			want:    []string{"only entry"},
		},
		{
			name:    "header only",
			content: "review\n",
			column:  "review",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCorpus(t, tt.content)
			docs, err := NewLoader(tt.column).Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if len(docs) != len(tt.want) {
				t.Fatalf("Load() returned %d documents, want %d", len(docs), len(tt.want))
			}
			for i, doc := range docs {
				if doc.ID != i {
					t.Errorf("document %d has ID %d, want %d", i, doc.ID, i)
				}
				if doc.Text != tt.want[i] {
					t.Errorf("document %d text = %q, want %q", i, doc.Text, tt.want[i])
				}
			}
		})
	}
}

func TestLoader_RowCountMatchesSource(t *testing.T) {
	path := writeCorpus(t, "review\na\nb\nc\nd\n")
	docs, err := NewLoader("review").Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	// 5 lines minus the header
	if len(docs) != 4 {
		t.Errorf("Load() returned %d documents, want 4", len(docs))
	}
}

func TestLoader_SourceNotFound(t *testing.T) {
	_, err := NewLoader("review").Load(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Load() error = %v, want ErrSourceNotFound", err)
	}
}

func TestLoader_MalformedRecord(t *testing.T) {
	path := writeCorpus(t, "id,review\n1,ok\n2\n")
	_, err := NewLoader("review").Load(path)

	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("Load() error = %v, want MalformedRecordError", err)
	}
	if malformed.Row != 1 {
		t.Errorf("malformed row = %d, want 1", malformed.Row)
	}
	if malformed.Column != 1 {
		t.Errorf("malformed column = %d, want 1", malformed.Column)
	}
}

func TestLoader_UnknownColumn(t *testing.T) {
	path := writeCorpus(t, "id,review\n1,ok\n")
	if _, err := NewLoader("summary").Load(path); err == nil {
		t.Error("Load() with unknown column succeeded, want error")
	}
}
