package demo

import "testing"

func TestLoad_DecodesEmbeddedModule(t *testing.T) {
	song, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if song.FormatID != "M.K." {
		t.Errorf("FormatID = %q, want \"M.K.\"", song.FormatID)
	}
	if song.Title == "" {
		t.Errorf("Title is empty")
	}
	if len(song.Patterns) == 0 {
		t.Errorf("no patterns decoded")
	}
}
