package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the database used by the backend.
var DB *gorm.DB

// Connect opens the database and configures the connection pool.
//
// A DSN starting with "postgres://" or containing "host=" connects to
// postgres, everything else is treated as a sqlite file path.
func Connect(dsn string) error {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	}

	var db *gorm.DB
	var err error

	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		db, err = gorm.Open(postgres.Open(dsn), config)
	} else {
		db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)), config)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// sqlite only supports one writer, limiting the pool to a single
	// connection prevents SQLITE_BUSY errors
	if db.Dialector.Name() == "sqlite" {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	}

	// Query callbacks
	err = db.Callback().Query().After("*").Register("cbms:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("cbms:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("cbms:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("cbms:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("cbms:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("cbms:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		match := regexp.MustCompile("ies$")
		name = match.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for
// create and update calls and replaces them with typed ledger errors
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	message := db.Error.Error()

	// One allocation per (financial year, department, budget head)
	if constraintFailed(message, "allocation_ledger_line", "allocations.financial_year") {
		db.Error = ErrDuplicateAllocation
	}

	// Bill numbers are unique per department and financial year. The
	// sqlite message lists the columns in index order, so the first
	// column identifies the index.
	if constraintFailed(message, "expenditure_bill_number", "expenditures.financial_year") {
		db.Error = ErrDuplicateBillNumber
	}

	// Each rejected bill is resubmitted at most once
	if constraintFailed(message, "expenditure_resubmission", "expenditures.original_expenditure_id") {
		db.Error = ErrNotResubmittable
	}

	// History versions are written strictly once
	if constraintFailed(message, "allocation_history_version", "allocation_histories.allocation_id") {
		db.Error = ErrConcurrentBudgetExceeded
	}
}

// constraintFailed matches both the sqlite message (which lists the
// columns) and the postgres message (which names the index).
func constraintFailed(message, indexName, sqliteColumns string) bool {
	if strings.Contains(message, "UNIQUE constraint failed: "+sqliteColumns) {
		return true
	}

	return strings.Contains(message, "duplicate key value violates unique constraint") && strings.Contains(message, indexName)
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		// A general error where we cannot provide more useful information to the end user
		// We log the error and provide a general error message so that server admins can debug
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		FinancialYear{},
		Department{},
		BudgetHead{},
		Allocation{},
		AllocationHistory{},
		Expenditure{},
		ApprovalStep{},
		BudgetProposal{},
		ProposalItem{},
		AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
