package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var migrationName = regexp.MustCompile(`^[a-z0-9_]+$`)

func main() {
	dir := flag.String("dir", filepath.Join("db", "migrations"), "migrations directory")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: migrate-create [-dir path] <name>")
	}
	name := flag.Arg(0)
	if !migrationName.MatchString(name) {
		log.Fatalf("migration name %q must be lowercase snake_case", name)
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}
	base := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102150405"), name)
	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := filepath.Join(*dir, base+suffix)
		if err := createEmpty(path, "-- "+name+suffix+"\n"); err != nil {
			log.Fatalf("create migration: %v", err)
		}
		log.Printf("created %s", path)
	}
}

func createEmpty(path, header string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
