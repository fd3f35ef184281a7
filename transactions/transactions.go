// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package transactions is an audit log of xmlenc.Context operations,
// adapted from the teacher's device-registration event log: the same
// database/sql + prepared-statement idiom, now recording one row per
// encrypt/decrypt call instead of one row per device event.
package transactions

import (
	"database/sql"
	"errors"
	"time"
)

// NotFound is returned when a lookup finds no matching row.
var NotFound = errors.New("transactions: operation record not found")

// Operations is the audit log's storage interface: one row is added
// per finished (successful or failed) xmlenc.Context operation, and
// rows can be listed back out by resource id for troubleshooting.
type Operations interface {
	Get(id int) (Record, error)
	Add(r Record) error
	ListByResource(resourceID string) func() (Record, error)
}

// Record is one logged xmlenc.Context operation.
type Record struct {
	ID           int       `json:"-"`
	ResourceID   string    `json:"resourceId"`
	Mode         string    `json:"mode"`      // "EncryptedData" or "EncryptedKey"
	Direction    string    `json:"direction"` // "encrypt" or "decrypt"
	StageReached string    `json:"stageReached"`
	ByteCount    int       `json:"byteCount"`
	Succeeded    bool      `json:"succeeded"`
	Timestamp    time.Time `json:"timestamp"`
}

type dbOperations struct {
	db             *sql.DB
	get            *sql.Stmt
	listByResource *sql.Stmt
}

// Get returns the logged operation with the given id.
func (o dbOperations) Get(id int) (Record, error) {
	row := o.get.QueryRow(id)
	var r Record
	var succeeded int
	err := row.Scan(&r.ID, &r.ResourceID, &r.Mode, &r.Direction, &r.StageReached, &r.ByteCount, &succeeded, &r.Timestamp)
	if err == sql.ErrNoRows {
		return Record{}, NotFound
	}
	if err != nil {
		return Record{}, err
	}
	r.Succeeded = succeeded != 0
	return r, nil
}

// Add inserts a completed operation record.
func (o dbOperations) Add(r Record) error {
	succeeded := 0
	if r.Succeeded {
		succeeded = 1
	}
	_, err := o.db.Exec(
		"INSERT INTO operation (resource_id, mode, direction, stage_reached, byte_count, succeeded, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ResourceID, r.Mode, r.Direction, r.StageReached, r.ByteCount, succeeded, r.Timestamp,
	)
	return err
}

// ListByResource returns an iterator function over every record logged
// for resourceID, oldest first.
func (o dbOperations) ListByResource(resourceID string) func() (Record, error) {
	rows, err := o.listByResource.Query(resourceID)
	if err != nil {
		return func() (Record, error) { return Record{}, err }
	}
	return func() (Record, error) {
		var r Record
		var succeeded int
		if !rows.Next() {
			rows.Close()
			return Record{}, NotFound
		}
		err := rows.Scan(&r.ID, &r.ResourceID, &r.Mode, &r.Direction, &r.StageReached, &r.ByteCount, &succeeded, &r.Timestamp)
		r.Succeeded = succeeded != 0
		return r, err
	}
}

// Open prepares the audit log's statements against db, creating the
// operation table if it doesn't already exist. The driver is selected
// by the caller via database/sql's registered driver name. The table
// definition and statements use SQLite syntax (AUTOINCREMENT, datetime,
// "?" placeholders); they are not accepted unmodified by lib/pq or
// go-sql-driver/mysql.
func Open(db *sql.DB) (Operations, error) {
	if _, err := db.Exec(tableDef); err != nil {
		return nil, err
	}
	get, err := db.Prepare("SELECT id, resource_id, mode, direction, stage_reached, byte_count, succeeded, timestamp FROM operation WHERE id = ? LIMIT 1")
	if err != nil {
		return nil, err
	}
	listByResource, err := db.Prepare("SELECT id, resource_id, mode, direction, stage_reached, byte_count, succeeded, timestamp FROM operation WHERE resource_id = ? ORDER BY timestamp ASC")
	if err != nil {
		return nil, err
	}
	return dbOperations{db: db, get: get, listByResource: listByResource}, nil
}

const tableDef = `CREATE TABLE IF NOT EXISTS operation (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	resource_id varchar(255) NOT NULL,
	mode varchar(32) NOT NULL,
	direction varchar(16) NOT NULL,
	stage_reached varchar(64) NOT NULL,
	byte_count int NOT NULL,
	succeeded int NOT NULL,
	timestamp datetime NOT NULL
);`
