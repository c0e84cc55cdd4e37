package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadCardCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	content := "category,text,weight,detail,kind\n" +
		"professions, Врач\n" +
		"Biology,Мужчина,70\n" +
		"events,Блины,,Найден запас блинов,припасы\n" +
		"hobbies,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := ReadCardCSV(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Category != "professions" || records[0].Text != "Врач" || records[0].Weight != 1 {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Category != "biology" || records[1].Weight != 70 {
		t.Fatalf("unexpected weighted record %+v", records[1])
	}
	if records[2].Detail != "Найден запас блинов" || records[2].Kind != "припасы" {
		t.Fatalf("unexpected event record %+v", records[2])
	}
}

func TestReadCardCSVRejectsBadWeight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	if err := os.WriteFile(path, []byte("category,text,weight\nbiology,Мужчина,lots\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := ReadCardCSV(path); err == nil {
		t.Fatalf("expected error for invalid weight")
	}
}

func TestLoadCardLibraryWithoutDB(t *testing.T) {
	count, err := LoadCardLibrary(nil, "does-not-matter.csv")
	if err != nil || count != 0 {
		t.Fatalf("expected no-op without db, got count=%d err=%v", count, err)
	}
}
