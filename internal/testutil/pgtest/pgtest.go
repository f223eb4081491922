// Package pgtest gives repository tests a throwaway Postgres database.
//
// Tests are skipped unless TEST_DB_HOST is set. TEST_DB_PORT, TEST_DB_USER,
// TEST_DB_PASS and TEST_DB_NAME (the maintenance database, "postgres" by
// default) describe the server. Every call creates a database prefixed with
// "testonlydb_" and drops it when the test ends. A test killed by timeout or
// Ctrl+C leaves its database behind; drop those by prefix.
package pgtest

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"anoa.com/scidiscoveries/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const dbPrefix = "testonlydb_"

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func open(dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("TEST_DB_HOST"),
		env("TEST_DB_USER", "postgres"),
		os.Getenv("TEST_DB_PASS"),
		dbName,
		env("TEST_DB_PORT", "5432"),
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// CreateTempDB creates and migrates a fresh database for t.
func CreateTempDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}

	admin, err := open(env("TEST_DB_NAME", "postgres"))
	require.NoError(t, err, "cannot connect to maintenance database")

	name := dbPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	require.NoError(t, admin.Exec("CREATE DATABASE "+name).Error)

	db, err := open(name)
	require.NoError(t, err, "cannot connect to %s", name)
	require.NoError(t, db.AutoMigrate(entity.Models()...))

	t.Cleanup(func() {
		// the pool must be closed before the database can be dropped
		if conn, err := db.DB(); err == nil {
			_ = conn.Close()
		}
		if err := admin.Exec("DROP DATABASE IF EXISTS " + name + " WITH (FORCE)").Error; err != nil {
			t.Logf("failed to drop %s: %v", name, err)
		}
		if conn, err := admin.DB(); err == nil {
			_ = conn.Close()
		}
	})

	return db
}

// SeedUser inserts a researcher with the given username.
func SeedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	u := &entity.User{
		Username:       username,
		Email:          username + "@example.com",
		Role:           entity.RoleResearcher,
		EducationLevel: entity.EducationBachelor,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedField inserts a scientific field.
func SeedField(t *testing.T, db *gorm.DB, name, slug string) *entity.ScientificField {
	t.Helper()
	f := &entity.ScientificField{Name: name, Slug: slug}
	require.NoError(t, db.Create(f).Error)
	return f
}

// SeedContent inserts a public idea tagged with fields.
func SeedContent(t *testing.T, db *gorm.DB, author *entity.User, title, slug string, fields ...*entity.ScientificField) *entity.Content {
	t.Helper()
	c := &entity.Content{
		ContentType:      entity.ContentTypeIdea,
		Title:            title,
		Slug:             slug,
		Description:      "description",
		AuthorID:         author.ID,
		Status:           entity.StatusIdea,
		IsPublic:         true,
		ScientificFields: fields,
	}
	require.NoError(t, db.Omit("Author").Create(c).Error)
	return c
}

// SeedComment inserts a comment, a reply when parent is non-nil.
func SeedComment(t *testing.T, db *gorm.DB, content *entity.Content, author *entity.User, parent *entity.Comment) *entity.Comment {
	t.Helper()
	c := &entity.Comment{ContentID: content.ID, AuthorID: author.ID, Text: "text"}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(c).Error)
	return c
}
