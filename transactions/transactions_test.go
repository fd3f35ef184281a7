// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transactions_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/transactions"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddThenGet(t *testing.T) {
	db := openTestDB(t)
	ops, err := transactions.Open(db)
	require.NoError(t, err)

	rec := transactions.Record{
		ResourceID:   "chapter1.xhtml",
		Mode:         "EncryptedData",
		Direction:    "encrypt",
		StageReached: "done",
		ByteCount:    128,
		Succeeded:    true,
		Timestamp:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, ops.Add(rec))

	got, err := ops.Get(1)
	require.NoError(t, err)
	require.Equal(t, rec.ResourceID, got.ResourceID)
	require.Equal(t, rec.Mode, got.Mode)
	require.Equal(t, rec.Direction, got.Direction)
	require.Equal(t, rec.StageReached, got.StageReached)
	require.Equal(t, rec.ByteCount, got.ByteCount)
	require.True(t, got.Succeeded)
}

func TestGetMissingIsNotFound(t *testing.T) {
	db := openTestDB(t)
	ops, err := transactions.Open(db)
	require.NoError(t, err)

	_, err = ops.Get(999)
	require.ErrorIs(t, err, transactions.NotFound)
}

func TestListByResourceOrdersOldestFirst(t *testing.T) {
	db := openTestDB(t)
	ops, err := transactions.Open(db)
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, ops.Add(transactions.Record{
		ResourceID: "chapter1.xhtml", Mode: "EncryptedData", Direction: "encrypt",
		StageReached: "done", ByteCount: 10, Succeeded: true, Timestamp: base,
	}))
	require.NoError(t, ops.Add(transactions.Record{
		ResourceID: "chapter1.xhtml", Mode: "EncryptedData", Direction: "decrypt",
		StageReached: "done", ByteCount: 10, Succeeded: false, Timestamp: base.Add(time.Minute),
	}))
	require.NoError(t, ops.Add(transactions.Record{
		ResourceID: "chapter2.xhtml", Mode: "EncryptedData", Direction: "encrypt",
		StageReached: "done", ByteCount: 20, Succeeded: true, Timestamp: base,
	}))

	next := ops.ListByResource("chapter1.xhtml")
	first, err := next()
	require.NoError(t, err)
	require.Equal(t, "encrypt", first.Direction)

	second, err := next()
	require.NoError(t, err)
	require.Equal(t, "decrypt", second.Direction)
	require.False(t, second.Succeeded)

	_, err = next()
	require.ErrorIs(t, err, transactions.NotFound)
}
