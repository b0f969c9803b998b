package frame

import (
	"strings"
	"testing"
)

func TestFromCSV_Inference(t *testing.T) {
	doc := "id,score,name,active\n" +
		"1,0.5,alice,true\n" +
		"2,,bob,false\n" +
		"3,2.5,,true\n"

	f, err := FromCSV(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}

	if f.Len() != 3 || f.NumCols() != 4 {
		t.Fatalf("expected (3, 4) frame, got (%d, %d)", f.Len(), f.NumCols())
	}
	if f.DType("id") != "int64" {
		t.Errorf("id should be int64, got %s", f.DType("id"))
	}
	if f.DType("score") != "float64" {
		t.Errorf("score should be float64, got %s", f.DType("score"))
	}
	if f.DType("name") != "string" {
		t.Errorf("name should be string, got %s", f.DType("name"))
	}
	if f.DType("active") != "bool" {
		t.Errorf("active should be bool, got %s", f.DType("active"))
	}
	if f.NullCount("score") != 1 {
		t.Errorf("empty cell should be null: got %d", f.NullCount("score"))
	}
	if f.NullCount("name") != 1 {
		t.Errorf("empty cell should be null: got %d", f.NullCount("name"))
	}
}

func TestFromCSV_WithoutInference(t *testing.T) {
	doc := "id,score\n1,0.5\n2,1.5\n"

	f, err := FromCSV(strings.NewReader(doc), WithoutTypeInference())
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if f.DType("id") != "string" || f.DType("score") != "string" {
		t.Errorf("inference disabled, expected strings, got %s and %s",
			f.DType("id"), f.DType("score"))
	}
}

func TestFromCSV_HeaderOnly(t *testing.T) {
	f, err := FromCSV(strings.NewReader("a,b,c\n"))
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if f.Len() != 0 || f.NumCols() != 3 {
		t.Errorf("expected (0, 3) frame, got (%d, %d)", f.Len(), f.NumCols())
	}
	// No data to infer from: columns stay strings
	if f.DType("a") != "string" {
		t.Errorf("expected string, got %s", f.DType("a"))
	}
}

func TestFromCSV_EmptyDocument(t *testing.T) {
	f, err := FromCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document should produce an empty frame: %v", err)
	}
	if f.Len() != 0 || f.NumCols() != 0 {
		t.Errorf("expected (0, 0) frame, got (%d, %d)", f.Len(), f.NumCols())
	}
}

func TestFromCSV_CustomDelimiter(t *testing.T) {
	f, err := FromCSV(strings.NewReader("a\tb\n1\tx\n"), WithComma('\t'))
	if err != nil {
		t.Fatalf("failed to read TSV: %v", err)
	}
	if f.NumCols() != 2 || f.DType("a") != "int64" {
		t.Errorf("unexpected frame: cols=%d dtype=%s", f.NumCols(), f.DType("a"))
	}
}
