// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/guildsync/internal/models"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	s := NewBadgerStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_ReadUnknownGuildReturnsDefaults(t *testing.T) {
	s := newTestBadgerStore(t)

	got := s.Read("123")
	if got.Prefix != models.DefaultPrefix || len(got.EnabledModules) != 2 {
		t.Errorf("Read() = %+v, want defaults", got)
	}
	if all := s.ReadAll(); len(all) != 0 {
		t.Errorf("ReadAll() = %d guilds after read, want 0", len(all))
	}
}

func TestBadgerStore_WriteMergesPartialPatch(t *testing.T) {
	s := newTestBadgerStore(t)

	if !s.Write("123", models.SettingsPatch{LogChannelID: strPtr("555")}) {
		t.Fatal("Write() = false")
	}
	if !s.Write("123", models.SettingsPatch{Prefix: strPtr("!!")}) {
		t.Fatal("Write() = false")
	}

	got := s.Read("123")
	if got.Prefix != "!!" {
		t.Errorf("Prefix = %q", got.Prefix)
	}
	if got.LogChannelID == nil || *got.LogChannelID != "555" {
		t.Errorf("LogChannelID = %v, want 555", got.LogChannelID)
	}

	if !s.Write("123", models.SettingsPatch{LogChannelID: strPtr("")}) {
		t.Fatal("Write() = false")
	}
	if got := s.Read("123"); got.LogChannelID != nil {
		t.Errorf("LogChannelID = %q, want cleared", *got.LogChannelID)
	}
}

func TestBadgerStore_WriteRejectsInvalidPatch(t *testing.T) {
	s := newTestBadgerStore(t)
	if s.Write("123", models.SettingsPatch{EnabledModules: []string{"NOT VALID"}}) {
		t.Error("Write() = true, want false")
	}
	if len(s.ReadAll()) != 0 {
		t.Error("rejected write persisted a record")
	}
}

func TestBadgerStore_CorruptRecordIsReset(t *testing.T) {
	s := newTestBadgerStore(t)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(guildKey("123"), []byte("{broken"))
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Read("123"); got.Prefix != models.DefaultPrefix {
		t.Errorf("Prefix = %q, want default", got.Prefix)
	}
	if all := s.ReadAll(); len(all) != 0 {
		t.Errorf("corrupt record still listed: %v", all)
	}
}

func TestBadgerStore_ConcurrentWrites(t *testing.T) {
	s := newTestBadgerStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta := models.MetadataPatch(models.GuildMetadata{Name: fmt.Sprintf("Guild %d", i), MemberCount: i})
			if !s.Write(fmt.Sprintf("%d", i), meta) {
				t.Errorf("Write(%d) = false", i)
			}
		}(i)
	}
	wg.Wait()

	all := s.ReadAll()
	if len(all) != 10 {
		t.Fatalf("ReadAll() = %d guilds, want 10", len(all))
	}
	if got := all["7"]; got.Name == nil || *got.Name != "Guild 7" {
		t.Errorf("guild 7 name = %v", got.Name)
	}
}

func TestBadgerStore_RunGCInMemory(t *testing.T) {
	s := newTestBadgerStore(t)
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() error: %v", err)
	}
}
