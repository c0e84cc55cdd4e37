package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// CardRecord is one row of a card library CSV:
// category,text[,weight[,detail[,kind]]] with a header line.
type CardRecord struct {
	Category string
	Text     string
	Weight   int
	Detail   string
	Kind     string
}

// LoadCardLibrary reads card entries from a CSV and upserts them into the card_entries table.
func LoadCardLibrary(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	records, err := ReadCardCSV(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, record := range records {
		entry := CardEntry{
			Category: record.Category,
			Text:     record.Text,
			Weight:   record.Weight,
			Detail:   record.Detail,
			Kind:     record.Kind,
		}
		if err := conn.Where(CardEntry{Category: entry.Category, Text: entry.Text}).
			Assign(CardEntry{Weight: entry.Weight, Detail: entry.Detail, Kind: entry.Kind}).
			FirstOrCreate(&entry).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func ReadCardCSV(path string) ([]CardRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []CardRecord
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		record := CardRecord{
			Category: strings.ToLower(strings.TrimSpace(row[0])),
			Text:     strings.TrimSpace(row[1]),
			Weight:   1,
		}
		if record.Category == "" || record.Text == "" {
			continue
		}
		if len(row) >= 3 && strings.TrimSpace(row[2]) != "" {
			weight, err := strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil || weight <= 0 {
				return nil, fmt.Errorf("line %d: invalid weight %q", i+1, row[2])
			}
			record.Weight = weight
		}
		if len(row) >= 4 {
			record.Detail = strings.TrimSpace(row[3])
		}
		if len(row) >= 5 {
			record.Kind = strings.TrimSpace(row[4])
		}
		records = append(records, record)
	}
	return records, nil
}
