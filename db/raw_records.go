package db

import (
	"github.com/google/uuid"
)

// InsertRawRecord stores a new raw record. ID and ReceivedAt are filled in
// when absent so callers only need to supply what the feed actually knows.
func InsertRawRecord(r *RawRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.ReceivedAt == 0 {
		r.ReceivedAt = NowMs()
	}

	_, err := GetDB().Exec(`
		INSERT INTO raw_records
			(id, source_type, session_file, project_slug, project_folder, team_port, content, original_timestamp, received_at, processed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`, r.ID, r.SourceType, r.SessionFile, r.ProjectSlug, r.ProjectFolder, r.TeamPort, r.Content, r.OriginalTimestamp, r.ReceivedAt)

	return err
}

// ListUnprocessedRawRecords returns up to limit unprocessed records ordered
// by their effective timestamp, ascending.
func ListUnprocessedRawRecords(limit int) ([]RawRecord, error) {
	rows, err := GetDB().Query(`
		SELECT id, source_type, session_file, project_slug, project_folder, team_port, content, original_timestamp, received_at, processed
		FROM raw_records
		WHERE processed = 0
		ORDER BY COALESCE(original_timestamp, received_at) ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var r RawRecord
		if err := rows.Scan(
			&r.ID, &r.SourceType, &r.SessionFile, &r.ProjectSlug, &r.ProjectFolder,
			&r.TeamPort, &r.Content, &r.OriginalTimestamp, &r.ReceivedAt, &r.Processed,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// MarkRawRecordProcessed flips the processed flag on a single record
func MarkRawRecordProcessed(id string) error {
	_, err := GetDB().Exec(`UPDATE raw_records SET processed = 1 WHERE id = ?`, id)
	return err
}

// CountRawRecords returns total and unprocessed raw record counts
func CountRawRecords() (total int64, unprocessed int64, err error) {
	row := GetDB().QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN processed = 0 THEN 1 ELSE 0 END), 0)
		FROM raw_records
	`)
	err = row.Scan(&total, &unprocessed)
	return total, unprocessed, err
}
