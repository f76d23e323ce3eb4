package postgres

import (
	"context"
	"database/sql"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) UploadTaskRepo() port.UploadTaskRepository {
	return NewSQLUploadTaskRepository(u.querier())
}

func (u *sqlUnitOfWork) DocumentRepo() port.DocumentRepository {
	return NewSQLDocumentRepository(u.querier())
}

func (u *sqlUnitOfWork) CaseRepo() port.CaseRepository {
	return NewSQLCaseRepository(u.querier())
}

// Execute runs fn in a transaction. Nested calls reuse the outer transaction.
func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
