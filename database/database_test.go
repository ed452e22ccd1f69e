package database

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/docrest/collection"
)

func TestNewDatabase_CreatesDir(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "nested", "db")

	db, err := NewDatabase(&Config{Name: "db", Dir: dir})
	AssertNil(err)
	AssertEqual(db.Name(), "db")
	AssertEqual(db.Dir(), dir)

	info, err := os.Stat(dir)
	AssertNil(err)
	AssertTrue(info.IsDir())
}

func TestGetCollection_OpensOnce(t *testing.T) {

	db, _ := NewDatabase(&Config{Name: "db", Dir: t.TempDir()})
	defer db.Close()

	first, created, err := db.GetCollection("people", nil)
	AssertNil(err)
	AssertTrue(created)

	second, created, err := db.GetCollection("people", &collection.Options{MaxLimit: 1})
	AssertNil(err)
	AssertFalse(created)
	AssertTrue(first == second)

	AssertEqual(db.ListCollections(), []string{"people"})

	_, err = os.Stat(filepath.Join(db.Dir(), "people"))
	AssertNil(err)
}

func TestClose_ClosesCollections(t *testing.T) {

	db, _ := NewDatabase(&Config{Name: "db", Dir: t.TempDir()})

	col, _, _ := db.GetCollection("a", nil)
	db.GetCollection("b", nil)

	AssertNil(db.Close())

	_, err := col.Insert(map[string]interface{}{"x": 1})
	AssertEqual(err, collection.ErrClosed)
}
